package config

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// JWTConfig хранит два независимых секрета: access и refresh токены
// подписываются разными ключами, утечка одного не раскрывает второй
type JWTConfig struct {
	AccessSecretKey  string `yaml:"access_secret_key"`
	RefreshSecretKey string `yaml:"refresh_secret_key"`
	AccessTokenTTL   string `yaml:"access_token_ttl"`
	RefreshTokenTTL  string `yaml:"refresh_token_ttl"`
}

type CookieConfig struct {
	Secure   bool   `yaml:"secure"`
	SameSite string `yaml:"same_site"`
}

type CORSConfig struct {
	AllowedOrigin string `yaml:"allowed_origin"`
}

type TTL struct {
	UserCache int `yaml:"user_cache"`
}
