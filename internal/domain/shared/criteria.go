package shared

// Operator is a comparison used in a Condition
type Operator string

const (
	OpEq     Operator = "eq"
	OpNe     Operator = "ne"
	OpGt     Operator = "gt"
	OpGte    Operator = "gte"
	OpLt     Operator = "lt"
	OpLte    Operator = "lte"
	OpIn     Operator = "in"
	OpLike   Operator = "like"
	OpIsNull Operator = "is_null"
)

// Condition is one predicate term. Field is the entity's Go field name
// (e.g. "CustomerID"); the persistence layer resolves it to a column and
// rejects names it does not know. Conditions in a list are AND-ed.
type Condition struct {
	Field string
	Op    Operator
	Value any
}

// Eq matches rows whose field equals value
func Eq(field string, value any) Condition { return Condition{Field: field, Op: OpEq, Value: value} }

// Ne matches rows whose field differs from value
func Ne(field string, value any) Condition { return Condition{Field: field, Op: OpNe, Value: value} }

// Gt matches rows whose field is greater than value
func Gt(field string, value any) Condition { return Condition{Field: field, Op: OpGt, Value: value} }

// Gte matches rows whose field is greater than or equal to value
func Gte(field string, value any) Condition { return Condition{Field: field, Op: OpGte, Value: value} }

// Lt matches rows whose field is less than value
func Lt(field string, value any) Condition { return Condition{Field: field, Op: OpLt, Value: value} }

// Lte matches rows whose field is less than or equal to value
func Lte(field string, value any) Condition { return Condition{Field: field, Op: OpLte, Value: value} }

// In matches rows whose field is one of values (a slice)
func In(field string, values any) Condition { return Condition{Field: field, Op: OpIn, Value: values} }

// Like matches rows whose field matches a SQL LIKE pattern
func Like(field, pattern string) Condition {
	return Condition{Field: field, Op: OpLike, Value: pattern}
}

// IsNull matches rows whose field is NULL
func IsNull(field string) Condition { return Condition{Field: field, Op: OpIsNull} }

// Sort orders results by one field. Multiple sorts compose left to right.
type Sort struct {
	Field string
	Desc  bool
}

// Asc sorts ascending by field
func Asc(field string) Sort { return Sort{Field: field} }

// Desc sorts descending by field
func Desc(field string) Sort { return Sort{Field: field, Desc: true} }

// Include names a navigation to eager-load. Each aggregate declares its own
// closed set of tokens; the persistence layer maps them to associations and
// fails on tokens it has not registered.
type Include string

// QueryOptions collects the optional parts of a read
type QueryOptions struct {
	Where    []Condition
	OrderBy  []Sort
	Includes []Include
	Select   []string
	Tracking bool
}

// QueryOption configures a read
type QueryOption func(*QueryOptions)

// NewQueryOptions applies opts over the defaults (no filter, untracked)
func NewQueryOptions(opts ...QueryOption) QueryOptions {
	var o QueryOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Where adds predicate terms
func Where(conds ...Condition) QueryOption {
	return func(o *QueryOptions) {
		o.Where = append(o.Where, conds...)
	}
}

// OrderBy appends sort terms, applied after filtering
func OrderBy(sorts ...Sort) QueryOption {
	return func(o *QueryOptions) {
		o.OrderBy = append(o.OrderBy, sorts...)
	}
}

// WithIncludes eager-loads the named navigations, one query per include
func WithIncludes(includes ...Include) QueryOption {
	return func(o *QueryOptions) {
		o.Includes = append(o.Includes, includes...)
	}
}

// Select projects the result onto the named fields
func Select(fields ...string) QueryOption {
	return func(o *QueryOptions) {
		o.Select = append(o.Select, fields...)
	}
}

// Tracked registers loaded entities with the unit of work so that changes
// made to them are detected and written on save
func Tracked() QueryOption {
	return func(o *QueryOptions) {
		o.Tracking = true
	}
}
