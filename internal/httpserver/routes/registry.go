package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/ablemap/ablemap/internal/httpserver/deps"
	"github.com/ablemap/ablemap/internal/httpserver/mw"
)

// Group decides where a registrar is mounted and which guards wrap it.
type Group int

const (
	// GroupPublic routes sit at the root, unguarded.
	GroupPublic Group = iota
	// GroupAPI routes are mounted under /api.
	GroupAPI
	// GroupOps routes only answer the allowed CIDRs and hosts.
	GroupOps
)

type Registrar func(r chi.Router, d deps.Deps)

type entry struct {
	group Group
	reg   Registrar
}

var registry []entry

// Register adds reg to group. Called from init().
func Register(group Group, reg Registrar) {
	registry = append(registry, entry{group: group, reg: reg})
}

// RegisterAll mounts every group once. Called from server.NewRouter().
func RegisterAll(r chi.Router, d deps.Deps) {
	byGroup := map[Group][]Registrar{}
	for _, e := range registry {
		byGroup[e.group] = append(byGroup[e.group], e.reg)
	}

	mount(r, d, byGroup[GroupPublic])

	if api := byGroup[GroupAPI]; len(api) > 0 {
		r.Route("/api", func(r chi.Router) { mount(r, d, api) })
	}

	if ops := byGroup[GroupOps]; len(ops) > 0 {
		r.Group(func(r chi.Router) {
			r.Use(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger))
			r.Use(mw.EnforceHost(d.AllowedHosts, d.Logger))
			mount(r, d, ops)
		})
	}
}

func mount(r chi.Router, d deps.Deps, regs []Registrar) {
	for _, reg := range regs {
		reg(r, d)
	}
}
