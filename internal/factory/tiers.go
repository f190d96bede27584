package factory

import (
	"mindmesh/internal/config"
	"mindmesh/internal/types"
)

// frameworksFor returns the framework names a tier is entitled to run.
func frameworksFor(tier types.Tier, tiers config.TiersConfig) []string {
	switch tier {
	case types.TierFree:
		return tiers.Free
	case types.TierPro:
		return tiers.Pro
	case types.TierEnterprise:
		return tiers.Enterprise
	}
	return nil
}

// intersect returns the recommended names the entitlement allows, preserving
// recommendation order. An empty result is valid: the caller just gets no
// framework views.
func intersect(recommended, entitled []string) []string {
	allowed := make(map[string]bool, len(entitled))
	for _, name := range entitled {
		allowed[name] = true
	}

	out := []string{}
	for _, name := range recommended {
		if allowed[name] {
			out = append(out, name)
		}
	}
	return out
}
