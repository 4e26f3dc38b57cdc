// Package services holds the server business logic: accounts and login,
// albums, the two-step album/photo synchronization, reconciliation, and
// presigned media URLs. Services bind repositories to the live store handle
// on every call so they keep working across reconnects.
package services

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/photoalbum/internal/common"
	"github.com/dmitrijs2005/photoalbum/internal/dbx"
)

// storeErr passes domain sentinels through unchanged. Anything else is a
// store failure: the provider is asked to re-check its link and the error is
// marked common.ErrDependencyUnavailable.
func storeErr(p dbx.Provider, err error) error {
	switch {
	case errors.Is(err, common.ErrorNotFound),
		errors.Is(err, common.ErrorAlreadyExists),
		errors.Is(err, common.ErrDependencyUnavailable):
		return err
	}
	p.ReportFailure(err)
	return fmt.Errorf("%w: %w", common.ErrDependencyUnavailable, err)
}
