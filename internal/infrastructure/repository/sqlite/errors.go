package sqlite

import domainerrors "result-hub/internal/domain/errors"

// ErrDBUnavailable is returned when a repository was built without a handle.
var ErrDBUnavailable = domainerrors.OperationFailed("database not available")
