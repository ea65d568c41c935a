package main

import (
	"context"
	"fmt"

	"github.com/jhoicas/consola-admin/internal/application/navegacion"
	"github.com/jhoicas/consola-admin/internal/application/panel"
	"github.com/jhoicas/consola-admin/internal/application/ports"
	"github.com/jhoicas/consola-admin/internal/application/sesion"
	"github.com/jhoicas/consola-admin/internal/domain/entity"
	"github.com/jhoicas/consola-admin/internal/domain/validacion"
	"github.com/jhoicas/consola-admin/internal/infrastructure/almacen"
	"github.com/jhoicas/consola-admin/internal/infrastructure/api"
	"github.com/jhoicas/consola-admin/internal/infrastructure/rest"
	"github.com/jhoicas/consola-admin/pkg/config"
	"github.com/jhoicas/consola-admin/pkg/logger"
)

// consola componentes compartidos por todos los comandos.
type consola struct {
	cfg     *config.Config
	log     *logger.Logger
	almacen ports.AlmacenSesion

	sesion         *sesion.Store
	navegacion     *navegacion.Shell
	usuarios       *panel.Panel[entity.Usuario]
	roles          *panel.Panel[entity.Rol]
	tiposDocumento *panel.Panel[entity.TipoDocumento]
}

// construir config → logger → almacén → cliente API → sesión → paneles.
func construir(ctx context.Context) (*consola, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("cargar configuración: %w", err)
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})

	alm, err := almacen.Abrir(ctx, cfg.Session, log)
	if err != nil {
		return nil, fmt.Errorf("abrir almacén de sesión: %w", err)
	}

	cliente := api.New(cfg.Backend.URL, log)
	val := validacion.New()

	var opts []sesion.Opcion
	if cfg.JWT.Secret != "" {
		opts = append(opts, sesion.ConSecreto(cfg.JWT.Secret))
	}
	store := sesion.New(alm, rest.NewAuthRepository(cliente), val, log, opts...)
	cliente.SetTokens(store)
	if err := store.Restaurar(ctx); err != nil {
		log.Warn().Err(err).Msg("no se pudo restaurar la sesión")
	}

	roles := rest.NewRolRepository(cliente)
	tipos := rest.NewTipoDocumentoRepository(cliente)
	refs := panel.NuevasReferencias(roles, tipos)

	return &consola{
		cfg:            cfg,
		log:            log,
		almacen:        alm,
		sesion:         store,
		navegacion:     navegacion.New(store),
		usuarios:       panel.New[entity.Usuario](panel.EspecificacionUsuarios(refs), rest.NewUsuarioRepository(cliente), val, store.Actor, log),
		roles:          panel.New[entity.Rol](panel.EspecificacionRoles(), roles, val, store.Actor, log),
		tiposDocumento: panel.New[entity.TipoDocumento](panel.EspecificacionTiposDocumento(), tipos, val, store.Actor, log),
	}, nil
}

// listado por nombre de entidad (usuarios, roles, tipos-documento).
func (c *consola) listado(ctx context.Context, entidad string) (panel.Listado, error) {
	switch entidad {
	case "usuarios":
		return c.usuarios.Listado(ctx)
	case "roles":
		return c.roles.Listado(ctx)
	case "tipos-documento":
		return c.tiposDocumento.Listado(ctx)
	}
	return panel.Listado{}, fmt.Errorf("entidad desconocida %q (usuarios, roles, tipos-documento)", entidad)
}

// permisoVer permiso de lectura de la entidad.
func permisoVer(entidad string) string {
	switch entidad {
	case "usuarios":
		return entity.PermisoVerUsuarios
	case "roles":
		return entity.PermisoVerRoles
	case "tipos-documento":
		return entity.PermisoVerTiposDocumento
	}
	return ""
}

func (c *consola) Close() error {
	return c.almacen.Close()
}
