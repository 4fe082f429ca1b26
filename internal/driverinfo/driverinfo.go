// Package driverinfo answers the SQLGetInfo/SQLGetFunctions capability
// surface: mostly static constants, one connection-derived string (the
// database name, also reported as the data source name), and the list
// of function names this driver implements. ConnInfo.Server is carried
// but no info type reports it.
package driverinfo

// Info type constants named as ODBC's sql.h does, restricted to the
// subset this driver answers.
const (
	InfoDriverName             = 6
	InfoDriverVer              = 7
	InfoDataSourceName         = 2
	InfoDatabaseName           = 16
	InfoDBMSName               = 17
	InfoDBMSVer                = 18
	InfoAccessibleTables       = 19
	InfoCatalogNameSeparator   = 41
	InfoCatalogTerm            = 42
	InfoSchemaTerm             = 39
	InfoTableTerm              = 45
	InfoIdentifierQuoteChar    = 29
	InfoSearchPatternEscape    = 14
	InfoMaxColumnNameLen       = 30
	InfoMaxTableNameLen        = 35
	InfoMaxColumnsInSelect     = 100
	InfoMaxIdentifierLen       = 10005
	InfoGetDataExtensions      = 81
	InfoTxnCapable             = 46
	InfoDefaultTxnIsolation    = 26
	InfoCursorCommitBehavior   = 23
	InfoCursorRollbackBehavior = 24
)

// Transaction-capability answers for SQL_TXN_CAPABLE: a single active
// transaction in which both DML and DDL participate.
const (
	TxnCapableAll = 2 // SQL_TC_ALL
)

// GetData extensions bitmap: this driver supports sequential GetData
// only (no column-bound bulk fetch, no piecewise retrieval across
// calls), so only the "any order within a row" and "any column" bits
// are reported.
const (
	GDExtensionsAnyColumn = 0x00000001 // SQL_GD_ANY_COLUMN
	GDExtensionsAnyOrder  = 0x00000002 // SQL_GD_ANY_ORDER
)

// DriverName is the exported shared library name the driver manager
// loads. Real packaging picks the platform suffix; this is the base
// name reported through SQLGetInfo(SQL_DRIVER_NAME).
const DriverName = "libfurballodbc.so"

// DriverVersion is the static driver version string.
const DriverVersion = "01.00.0000"

// DBMSName is the driver's target: Microsoft SQL Server, spoken over
// TDS.
const DBMSName = "Microsoft SQL Server"

// ConnInfo carries the connection-derived facts SQLGetInfo needs:
// server and database names, neither of which is known until a
// Connection is open.
type ConnInfo struct {
	Server   string
	Database string
}

// StringInfo returns the string-valued answer for infoType, and ok=false
// for info types this driver does not recognize (the caller maps that
// to an error, not a diagnostic — unrecognized info types are a caller
// bug per the ODBC spec, not a driver failure mode).
func StringInfo(infoType int16, ci ConnInfo) (string, bool) {
	switch infoType {
	case InfoDriverName:
		return DriverName, true
	case InfoDriverVer:
		return DriverVersion, true
	case InfoDBMSName:
		return DBMSName, true
	case InfoDBMSVer:
		return DriverVersion, true
	case InfoDataSourceName, InfoDatabaseName:
		if ci.Database != "" {
			return ci.Database, true
		}
		return "", true
	case InfoCatalogNameSeparator:
		return ".", true
	case InfoCatalogTerm:
		return "database", true
	case InfoSchemaTerm:
		return "schema", true
	case InfoTableTerm:
		return "table", true
	case InfoAccessibleTables:
		return "Y", true
	case InfoIdentifierQuoteChar:
		return "\"", true
	case InfoSearchPatternEscape:
		return "\\", true
	default:
		return "", false
	}
}

// IntInfo returns the numeric answer for infoType (word-sized values:
// max lengths, capability bitmaps, transaction-capability/isolation
// constants).
func IntInfo(infoType int16) (uint32, bool) {
	switch infoType {
	case InfoMaxColumnNameLen:
		return 128, true
	case InfoMaxTableNameLen:
		return 128, true
	case InfoMaxColumnsInSelect:
		return 4096, true
	case InfoMaxIdentifierLen:
		return 128, true
	case InfoGetDataExtensions:
		return GDExtensionsAnyColumn | GDExtensionsAnyOrder, true
	case InfoTxnCapable:
		return TxnCapableAll, true
	case InfoDefaultTxnIsolation:
		return 2, true // SQL_TXN_READ_COMMITTED, SQL Server's server-side default
	case InfoCursorCommitBehavior, InfoCursorRollbackBehavior:
		return 0, true // SQL_CB_DELETE: forward-only cursors close on commit/rollback
	default:
		return 0, false
	}
}

// FunctionNames are the ODBC functions this driver implements, as
// Supported checks them. SQLGetFunctions in cmd/furballdriver does not
// consult this list: it answers "supported" for every function id.
var FunctionNames = []string{
	"SQLAllocHandle", "SQLFreeHandle",
	"SQLConnect", "SQLDriverConnect", "SQLDisconnect",
	"SQLSetConnectAttr", "SQLGetConnectAttr", "SQLEndTran",
	"SQLPrepare", "SQLExecDirect", "SQLExecute",
	"SQLBindParameter", "SQLParamData", "SQLPutData",
	"SQLFetch", "SQLFetchScroll", "SQLGetData",
	"SQLNumResultCols", "SQLDescribeCol", "SQLColAttribute",
	"SQLRowCount", "SQLNumParams",
	"SQLFreeStmt",
	"SQLTables", "SQLColumns", "SQLPrimaryKeys", "SQLStatistics",
	"SQLForeignKeys", "SQLSpecialColumns", "SQLGetTypeInfo", "SQLProcedures",
	"SQLGetInfo", "SQLGetFunctions",
	"SQLGetDiagRec", "SQLGetDiagField",
	"SQLCancel",
}

// Supported reports whether fn is one of FunctionNames.
func Supported(fn string) bool {
	for _, f := range FunctionNames {
		if f == fn {
			return true
		}
	}
	return false
}
