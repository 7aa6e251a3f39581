package generator

const (
	// markerTag is the JSDoc tag that makes a top-level function a procedure.
	markerTag = "procedure"

	// connectionArg is the global the platform binds the connection object to.
	connectionArg = "snowflake"

	// resultVar is shared between the entry script and the statement template.
	resultVar = "__result"

	defaultLanguage = "javascript"

	rightsCaller = "caller"
	rightsOwner  = "owner"

	statementSeparator = "\n\n\n"
	bodyDelimiter      = "$$"
	entryFileName      = "entry.js"
	scratchPrefix      = "tsproc-bundle-"
)

// SQL type names.
const (
	sqlString       = "STRING"
	sqlNumber       = "NUMBER"
	sqlTimestampLTZ = "TIMESTAMP_LTZ"
	sqlBoolean      = "BOOLEAN"
	sqlArray        = "ARRAY"
	sqlVariant      = "VARIANT"
	sqlVariantNull  = "VARIANT NULL"
)

// Source type names.
const (
	typeString    = "string"
	typeNumber    = "number"
	typeBigint    = "bigint"
	typeBoolean   = "boolean"
	typeDate      = "Date"
	typeObject    = "object"
	typeAny       = "any"
	typeUnknown   = "unknown"
	typeJSON      = "JSON"
	typeVoid      = "void"
	typeUndefined = "undefined"
	typeNever     = "never"
	typeNull      = "null"
)
