// Package seed inserts the default construction sites and roles.
package seed

import (
	"context"
	"fmt"

	"github.com/warp/payroll-engine/directory"
	"github.com/warp/payroll-engine/logger"
)

// SiteSeed is a default construction site.
type SiteSeed struct {
	Name    string
	Address string
}

// DefaultSites are created on first start.
var DefaultSites = []SiteSeed{
	{"DGDI-Libreville", "Libreville, Gabon"},
	{"DGDI-Oyem", "Oyem, Gabon"},
	{"DGDI-Meyo Kye", "Meyo Kye, Gabon"},
	{"BDT-Libreville", "Libreville, Gabon"},
	{"Cobac-Libreville", "Libreville, Gabon"},
}

// DefaultRoles are created on first start.
var DefaultRoles = []string{
	"Guichetier", "Gardien", "Chauffeur", "Magasinier", "Coursier",
	"Chef de chantier", "Chef d'équipe-Maçon", "Chef d'équipe-Charpentier",
	"Chef d'équipe-Ferrailleur", "Maçon", "Aide Maçon", "Charpentier",
	"Aide Charpentier", "Ferrailleur", "Aide Ferrailleur", "Betonier", "Aide",
}

// Result counts the rows Defaults created.
type Result struct {
	Sites int
	Roles int
}

// Defaults creates every default site and role whose name is not already
// present. Safe to run on every start.
func Defaults(ctx context.Context, store directory.Store) (Result, error) {
	var res Result

	sites, err := store.ListSites(ctx)
	if err != nil {
		return res, fmt.Errorf("list sites: %w", err)
	}
	haveSite := make(map[string]bool, len(sites))
	for _, s := range sites {
		haveSite[s.Name] = true
	}
	for _, s := range DefaultSites {
		if haveSite[s.Name] {
			continue
		}
		if _, err := store.CreateSite(ctx, s.Name, s.Address); err != nil {
			return res, fmt.Errorf("create site %q: %w", s.Name, err)
		}
		res.Sites++
	}

	roles, err := store.ListRoles(ctx)
	if err != nil {
		return res, fmt.Errorf("list roles: %w", err)
	}
	haveRole := make(map[string]bool, len(roles))
	for _, r := range roles {
		haveRole[r.Name] = true
	}
	for _, name := range DefaultRoles {
		if haveRole[name] {
			continue
		}
		if _, err := store.CreateRole(ctx, name); err != nil {
			return res, fmt.Errorf("create role %q: %w", name, err)
		}
		res.Roles++
	}

	logger.C(ctx).Info().Int("sites", res.Sites).Int("roles", res.Roles).Msg("default data seeded")
	return res, nil
}
