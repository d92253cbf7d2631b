package extracts

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/datakit-io/cdcexcludes/internal/warehouse"
)

// TableName pulls the bare table name out of a TABLE statement, dropping any
// schema or owner qualifier, and upper-cases it. Returns "" when no name can
// be captured.
func TableName(statement string) string {
	m := reTableName.FindStringSubmatch(statement)
	if m == nil {
		return ""
	}
	ref := m[1]
	if i := strings.LastIndex(ref, "."); i >= 0 {
		ref = ref[i+1:]
	}
	return strings.ToUpper(ref)
}

// colexcPattern matches a COLEXC statement whose argument contains field.
// The argument match is deliberately loose: COLEXC arguments frequently carry
// positional or type suffixes (SSN_MASKED, DOB_1), and a strict token match
// would flag those as missing.
func colexcPattern(field string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)COLEXC\s+[^,\s]*` + regexp.QuoteMeta(field) + `[^,\s]*`)
}

// CheckDeclaration validates one TABLE declaration against the exclude map.
// It returns nil when the declaration is compliant or the table carries no
// exclude requirements.
func CheckDeclaration(decl TableDeclaration, excl warehouse.ExclusionMap) *ValidationError {
	table := TableName(decl.Statement)
	if table == "" {
		return &ValidationError{
			Extract: decl.Extract,
			Message: fmt.Sprintf("could not extract table name from: %s", decl.Statement),
		}
	}

	required, ok := excl[table]
	if !ok {
		log.Info().Str("extract", decl.Extract).Str("table", table).Msg("no exclude field requirements")
		return nil
	}
	log.Info().Str("extract", decl.Extract).Str("table", table).Str("requires", strings.Join(required, ", ")).Msg("validating COLEXC statements")

	var missing []string
	for _, field := range required {
		if !colexcPattern(field).MatchString(decl.Context) {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Extract: decl.Extract, Table: table, Missing: missing}
	}

	log.Info().Str("extract", decl.Extract).Str("table", table).Msg("all required COLEXC statements present")
	return nil
}

// CheckAll runs CheckDeclaration across all declarations, accumulating every
// error so one run reports every non-compliant table.
func CheckAll(decls []TableDeclaration, excl warehouse.ExclusionMap) []*ValidationError {
	var errs []*ValidationError
	for _, d := range decls {
		if err := CheckDeclaration(d, excl); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}
