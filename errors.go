package anonymizer

import (
	"errors"
	"fmt"
)

var (
	// ErrNotReady is returned by every query issued before a successful fit.
	ErrNotReady = errors.New("model not fitted")

	// ErrClusterNotFound is returned for an unknown cluster id.
	ErrClusterNotFound = errors.New("cluster not found")

	// ErrClusterSuppressed is returned when a cluster below the K threshold
	// is queried by id. Deliberately distinct from ErrClusterNotFound: a
	// caller who knows the id learns the cluster exists, so detail lookup
	// refuses explicitly instead of pretending absence.
	ErrClusterSuppressed = errors.New("cluster too small to disclose")
)

// DataSourceError indicates the raw dataset could not be loaded: missing
// source, unreadable bytes, or an empty table. Fatal to the fit attempt only;
// a previously installed snapshot keeps serving.
//
// The original underlying error can be accessed via errors.Unwrap.
type DataSourceError struct {
	cause error
}

func (e *DataSourceError) Error() string {
	return fmt.Sprintf("data source: %v", e.cause)
}

func (e *DataSourceError) Unwrap() error { return e.cause }

// FeatureError indicates no usable feature columns remain after dropping
// sensitive ones. Fatal to the fit attempt only.
//
// The original underlying error can be accessed via errors.Unwrap.
type FeatureError struct {
	cause error
}

func (e *FeatureError) Error() string {
	return fmt.Sprintf("feature construction: %v", e.cause)
}

func (e *FeatureError) Unwrap() error { return e.cause }
