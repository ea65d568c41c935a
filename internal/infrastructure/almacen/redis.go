package almacen

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/consola-admin/internal/application/ports"
	"github.com/jhoicas/consola-admin/pkg/config"
	"github.com/jhoicas/consola-admin/pkg/logger"
)

var _ ports.AlmacenSesion = (*Redis)(nil)

// Redis almacén compartido entre máquinas. Cada cambio se publica en <prefijo>:sesion:cambios.
type Redis struct {
	client  *redis.Client
	prefijo string
	log     *logger.Logger
}

// NewRedis conecta y verifica con PING.
func NewRedis(ctx context.Context, cfg config.SessionConfig, log *logger.Logger) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("almacen redis: conectar %s: %w", cfg.RedisAddr, err)
	}
	return NewRedisConCliente(client, cfg.Prefix, log), nil
}

// NewRedisConCliente usa un cliente ya construido.
func NewRedisConCliente(client *redis.Client, prefijo string, log *logger.Logger) *Redis {
	return &Redis{client: client, prefijo: prefijo, log: log.Componente("almacen_redis")}
}

func (r *Redis) clave(c string) string { return r.prefijo + ":sesion:" + c }

func (r *Redis) canal() string { return r.prefijo + ":sesion:cambios" }

func (r *Redis) Leer(ctx context.Context, clave string) (string, bool, error) {
	v, err := r.client.Get(ctx, r.clave(clave)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("almacen redis: leer %s: %w", clave, err)
	}
	return v, true, nil
}

// Escribir usa MSET: los demás procesos ven todas las claves o ninguna.
func (r *Redis) Escribir(ctx context.Context, valores map[string]string) error {
	if len(valores) == 0 {
		return nil
	}
	claves := slices.Sorted(maps.Keys(valores))
	pares := make([]any, 0, 2*len(claves))
	for _, c := range claves {
		pares = append(pares, r.clave(c), valores[c])
	}
	if err := r.client.MSet(ctx, pares...).Err(); err != nil {
		return fmt.Errorf("almacen redis: escribir %s: %w", strings.Join(claves, ","), err)
	}
	return r.publicar(ctx, claves[0])
}

func (r *Redis) Borrar(ctx context.Context, claves ...string) error {
	if len(claves) == 0 {
		return nil
	}
	completas := make([]string, len(claves))
	for i, c := range claves {
		completas[i] = r.clave(c)
	}
	if err := r.client.Del(ctx, completas...).Err(); err != nil {
		return fmt.Errorf("almacen redis: borrar: %w", err)
	}
	return r.publicar(ctx, claves[0])
}

func (r *Redis) publicar(ctx context.Context, clave string) error {
	if err := r.client.Publish(ctx, r.canal(), clave).Err(); err != nil {
		// el valor ya quedó escrito; solo se pierde el aviso
		r.log.Warn().Err(err).Str("key", clave).Msg("no se pudo publicar el cambio de sesión")
	}
	return nil
}

// Observar se suscribe al canal de cambios hasta que ctx termine.
func (r *Redis) Observar(ctx context.Context) (<-chan struct{}, error) {
	sub := r.client.Subscribe(ctx, r.canal())
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("almacen redis: suscribir: %w", err)
	}

	ch := make(chan struct{}, 1)
	mensajes := sub.Channel()
	go func() {
		defer close(ch)
		defer sub.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-mensajes:
				if !ok {
					return
				}
				select {
				case ch <- struct{}{}:
				default:
				}
			}
		}
	}()
	return ch, nil
}

func (r *Redis) Close() error { return r.client.Close() }
