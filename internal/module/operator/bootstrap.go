package operator

import (
	"context"

	"github.com/simp-lee/coconsole/internal/domain"
)

// Bootstrap creates a principal operator with email unless one exists, so a
// fresh deployment has someone who can sign in. It reports whether an
// operator was created.
func Bootstrap(ctx context.Context, repo domain.OperatorRepository, svc domain.OperatorService, email, password string) (bool, error) {
	if _, err := repo.GetByEmail(ctx, email); err == nil {
		return false, nil
	} else if !domain.IsNotFound(err) {
		return false, err
	}

	_, err := svc.CreateOperator(ctx, domain.OperatorInput{
		Name:     "Administrator",
		Email:    email,
		Role:     domain.RolePrincipal,
		Password: password,
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
