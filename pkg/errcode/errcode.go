package errcode

import (
	"github.com/gnames/gn"
)

const (
	UnknownError gn.ErrorCode = iota

	// Database errors
	DBConnectionError
	DBNotConnectedError
	DBTableCheckError

	// Schema errors
	SchemaError
	IndexBuildError

	// Ingestion errors
	AssetReadError
	ParseError
	TransactionError
	MetadataError

	// Query errors
	InvalidSortKeyError
	QueryError
	RecordScanError

	// Coordinator errors
	QueueFullError
	OperationTimeoutError
	OperationCancelledError
	CoordinatorClosedError

	// Profile errors
	ProfileReadError
	ProfileUnknownError
)
