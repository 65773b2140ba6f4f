package reader

import "github.com/llehouerou/metaread/internal/errmsg"

// OpenError reports a file whose container could not be opened or probed.
// No record is produced for it.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return errmsg.FormatWith(errmsg.OpContainerOpen, e.Path, e.Err)
}

func (e *OpenError) Unwrap() error { return e.Err }
