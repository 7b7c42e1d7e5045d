package service

import (
	"context"
	"fmt"

	"todoapp/internal/core/domain"
	"todoapp/internal/core/port"
)

// ClaimsAggregator builds the claim set of an identity account: profile
// claims, then identity claims, then one role claim followed by the role's
// own claims for every role. Nothing is deduplicated.
type ClaimsAggregator struct {
	credentials port.CredentialStore
}

func NewClaimsAggregator(credentials port.CredentialStore) *ClaimsAggregator {
	return &ClaimsAggregator{credentials}
}

// Aggregate expects the linked profile to be resolved already. A nil user
// only omits the profile claims.
func (ca *ClaimsAggregator) Aggregate(ctx context.Context, account *domain.IdentityAccount, user *domain.DomainUser) ([]domain.Claim, error) {
	var claims []domain.Claim

	if user != nil {
		claims = append(claims,
			domain.NewClaim(domain.ClaimDomainUserID, user.ID.String()),
			domain.NewClaim(domain.ClaimDisplayName, user.DisplayName),
		)
	}

	identityClaims, err := ca.credentials.GetClaims(ctx, account)

	if err != nil {
		return nil, fmt.Errorf("get account claims: %w", err)
	}

	claims = append(claims, identityClaims...)

	roles, err := ca.credentials.GetRoles(ctx, account)

	if err != nil {
		return nil, fmt.Errorf("get account roles: %w", err)
	}

	for _, role := range roles {
		claims = append(claims, domain.NewClaim(domain.ClaimRole, string(role)))

		roleClaims, err := ca.credentials.GetRoleClaims(ctx, role)

		if err != nil {
			return nil, fmt.Errorf("get claims of role %s: %w", role, err)
		}

		claims = append(claims, roleClaims...)
	}

	return claims, nil
}
