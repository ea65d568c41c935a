package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Drivers de almacenamiento de sesión soportados.
const (
	SessionArchivo  = "archivo"
	SessionRedis    = "redis"
	SessionPostgres = "postgres"
	SessionMemoria  = "memoria"
)

// Config agrupa la configuración de la consola (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App     AppConfig
	Backend BackendConfig
	HTTP    HTTPConfig
	Session SessionConfig
	JWT     JWTConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string // trace, debug, info, warn, error
}

// BackendConfig API REST que administra la consola.
type BackendConfig struct {
	URL string // ej. http://localhost:3001/api
}

// HTTPConfig servidor local de la consola.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// SessionConfig almacenamiento durable de la sesión del operador.
// Equivale al localStorage del navegador: token + identidad bajo claves fijas.
type SessionConfig struct {
	Driver        string // archivo, redis, postgres, memoria
	Path          string // archivo JSON (driver archivo)
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	DatabaseURL   string // driver postgres
	Prefix        string // prefijo de claves (redis) / espacio de nombres (postgres)
}

// JWTConfig si Secret no está vacío, la consola verifica la firma de los tokens del backend.
type JWTConfig struct {
	Secret string
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, BACKEND_URL, SESSION_DRIVER, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "consola-admin"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		Backend: BackendConfig{
			URL: strings.TrimRight(getString(v, "BACKEND_URL", "http://localhost:3001/api"), "/"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "127.0.0.1"),
			Port: getInt(v, "HTTP_PORT", 8090),
		},
		Session: SessionConfig{
			Driver:        strings.ToLower(getString(v, "SESSION_DRIVER", SessionArchivo)),
			Path:          getString(v, "SESSION_PATH", defaultSessionPath()),
			RedisAddr:     getString(v, "REDIS_ADDR", "localhost:6379"),
			RedisPassword: getString(v, "REDIS_PASSWORD", ""),
			RedisDB:       getInt(v, "REDIS_DB", 0),
			DatabaseURL:   getString(v, "SESSION_DATABASE_URL", ""),
			Prefix:        getString(v, "SESSION_PREFIX", "consola"),
		},
		JWT: JWTConfig{
			Secret: getString(v, "JWT_SECRET", ""),
		},
	}

	switch cfg.Session.Driver {
	case SessionArchivo, SessionRedis, SessionMemoria:
	case SessionPostgres:
		if cfg.Session.DatabaseURL == "" {
			return nil, fmt.Errorf("config: SESSION_DATABASE_URL es obligatorio con SESSION_DRIVER=postgres")
		}
	default:
		return nil, fmt.Errorf("config: SESSION_DRIVER desconocido %q", cfg.Session.Driver)
	}
	return cfg, nil
}

// defaultSessionPath ~/.config/consola-admin/sesion.json, o ./.consola si no hay directorio de usuario.
func defaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".consola", "sesion.json")
	}
	return filepath.Join(dir, "consola-admin", "sesion.json")
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(v.GetString(key))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}
