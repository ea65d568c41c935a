package almacen

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/consola-admin/internal/application/ports"
	"github.com/jhoicas/consola-admin/pkg/config"
	"github.com/jhoicas/consola-admin/pkg/logger"
)

var _ ports.AlmacenSesion = (*Postgres)(nil)

const canalPostgres = "sesion_kv_cambios"

// Postgres almacén en la tabla sesion_kv, separado por espacio (SESSION_PREFIX).
// Los cambios se avisan con NOTIFY sesion_kv_cambios, payload = espacio.
type Postgres struct {
	pool    *pgxpool.Pool
	espacio string
	log     *logger.Logger
}

// NewPostgres abre el pool, lo verifica y crea la tabla si no existe.
func NewPostgres(ctx context.Context, cfg config.SessionConfig, log *logger.Logger) (*Postgres, error) {
	pool, err := NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	p := &Postgres{pool: pool, espacio: cfg.Prefix, log: log.Componente("almacen_postgres")}
	if err := p.Migrar(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return p, nil
}

// NewPool crea el pool de conexiones. Pocas conexiones: una consola, un operador,
// más la conexión dedicada al LISTEN.
func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse DSN: %w", err)
	}
	poolConfig.MaxConns = 4
	poolConfig.MinConns = 1
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("crear pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping DB: %w", err)
	}
	return pool, nil
}

// Migrar crea la tabla sesion_kv.
func (p *Postgres) Migrar(ctx context.Context) error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS sesion_kv (
	    espacio     TEXT        NOT NULL,
	    clave       TEXT        NOT NULL,
	    valor       TEXT        NOT NULL,
	    updated_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	    PRIMARY KEY (espacio, clave)
	)`
	if _, err := p.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("almacen postgres: migrar: %w", err)
	}
	return nil
}

func (p *Postgres) Leer(ctx context.Context, clave string) (string, bool, error) {
	const query = `SELECT valor FROM sesion_kv WHERE espacio = $1 AND clave = $2`
	var valor string
	err := p.pool.QueryRow(ctx, query, p.espacio, clave).Scan(&valor)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("almacen postgres: leer %s: %w", clave, err)
	}
	return valor, true, nil
}

func (p *Postgres) Escribir(ctx context.Context, valores map[string]string) error {
	const query = `
		INSERT INTO sesion_kv (espacio, clave, valor, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (espacio, clave) DO UPDATE SET valor = EXCLUDED.valor, updated_at = now()`
	return p.enTx(ctx, func(tx pgx.Tx) error {
		for clave, valor := range valores {
			if _, err := tx.Exec(ctx, query, p.espacio, clave, valor); err != nil {
				return fmt.Errorf("almacen postgres: escribir %s: %w", clave, err)
			}
		}
		return nil
	})
}

func (p *Postgres) Borrar(ctx context.Context, claves ...string) error {
	const query = `DELETE FROM sesion_kv WHERE espacio = $1 AND clave = ANY($2)`
	return p.enTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, query, p.espacio, claves); err != nil {
			return fmt.Errorf("almacen postgres: borrar: %w", err)
		}
		return nil
	})
}

// enTx ejecuta fn y el NOTIFY en la misma transacción: el aviso sale solo si hubo commit.
func (p *Postgres) enTx(ctx context.Context, fn func(pgx.Tx) error) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("almacen postgres: begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `SELECT pg_notify($1, $2)`, canalPostgres, p.espacio); err != nil {
		return fmt.Errorf("almacen postgres: notify: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("almacen postgres: commit: %w", err)
	}
	return nil
}

// Observar reserva una conexión del pool para LISTEN hasta que ctx termine.
func (p *Postgres) Observar(ctx context.Context) (<-chan struct{}, error) {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("almacen postgres: adquirir conexión: %w", err)
	}
	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{canalPostgres}.Sanitize()); err != nil {
		conn.Release()
		return nil, fmt.Errorf("almacen postgres: listen: %w", err)
	}

	ch := make(chan struct{}, 1)
	go func() {
		defer close(ch)
		defer conn.Release()
		for {
			n, err := conn.Conn().WaitForNotification(ctx)
			if err != nil {
				if ctx.Err() == nil {
					p.log.Warn().Err(err).Msg("LISTEN interrumpido")
				}
				// tras cancelar la espera la conexión no es reutilizable
				_ = conn.Conn().Close(context.Background())
				return
			}
			if n.Payload != p.espacio {
				continue
			}
			select {
			case ch <- struct{}{}:
			default:
			}
		}
	}()
	return ch, nil
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}
