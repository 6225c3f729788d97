package diagnostic

// Error codes. The first three form the schema-authoring taxonomy; the rest
// refine resolver failures that the taxonomy does not name.
const (
	CodeUnknownType          = "unknown_type"
	CodeUnresolvedCountField = "unresolved_count_field"
	CodeUnsupportedShape     = "unsupported_shape"

	CodeDuplicateName    = "duplicate_name"
	CodeCompositionCycle = "composition_cycle"
	CodeUnknownSetter    = "unknown_setter"
	CodeInvalidLiteral   = "invalid_literal"
)

// Warning codes.
const (
	CodeCouldBeStringIgnored = "could_be_string_ignored"
	CodeDefaultIgnored       = "default_ignored"
)
