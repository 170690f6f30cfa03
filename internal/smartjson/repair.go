package smartjson

import (
	"regexp"
	"strconv"
	"strings"
)

// Textual repairs applied before strict decoding. Fixing the common
// mistakes with regexes is far cheaper than teaching every producer to
// emit clean JSON.
var (
	loneKeyPattern   = regexp.MustCompile(`\{\s*("\w+")\s*\}`)
	keyChainToList   = regexp.MustCompile(`("\w+")\s*:\s*("\w+")\s*:\s*(\[[^\]]*\])`)
	keyChainToString = regexp.MustCompile(`("\w+")\s*:\s*("\w+")\s*:\s*("\w+")`)

	// Unquoted math expressions sitting where a JSON value belongs. The
	// trailing delimiter is captured rather than looked ahead at, so
	// adjacent list elements need repeated passes; see RepairMath.
	mathValuePattern = regexp.MustCompile(`([:\[,]\s*)([\d.\s+\-*/()%]+\d)(\s*)([,\]}])`)
	mathExprShape    = regexp.MustCompile(`^[\d.\s+\-*/()%]+\d$`)

	codeBlockPattern = `(?s)` + "```%s(.*?)```"
)

// Repair rewrites well-known malformed shapes into valid JSON text. The
// result is not guaranteed to parse; it is handed back to the strict
// decoder for a second attempt.
func Repair(text string) string {
	text = loneKeyPattern.ReplaceAllString(text, `$1`)
	text = keyChainToList.ReplaceAllString(text, `$1: { $2: $3 }`)
	text = keyChainToString.ReplaceAllString(text, `$1: { $2: $3 }`)
	return RepairMath(text)
}

// RepairMath evaluates unquoted arithmetic expressions in value
// position and substitutes the result. Each pass consumes the
// delimiter that the next element's match would anchor on, so the
// substitution loops until the text stops changing.
func RepairMath(text string) string {
	for {
		next := mathValuePattern.ReplaceAllStringFunc(text, func(m string) string {
			parts := mathValuePattern.FindStringSubmatch(m)
			expr := strings.TrimSpace(parts[2])
			if !mathExprShape.MatchString(expr) {
				return m
			}
			v, err := EvalArithmetic(expr)
			if err != nil {
				return m
			}
			return parts[1] + formatNumber(v) + parts[3] + parts[4]
		})
		if next == text {
			return next
		}
		text = next
	}
}

func formatNumber(v any) string {
	switch n := v.(type) {
	case int64:
		return strconv.FormatInt(n, 10)
	case float64:
		s := strconv.FormatFloat(n, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}
		return s
	default:
		return ""
	}
}

// ExtractCodeBlock pulls the contents of fenced code blocks for the
// given language out of surrounding prose. Multiple blocks are
// concatenated. Text without any fence is returned unchanged.
func ExtractCodeBlock(text, lang string) string {
	pattern := regexp.MustCompile(strings.Replace(codeBlockPattern, "%s", regexp.QuoteMeta(lang), 1))
	matches := pattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return text
	}
	var sb strings.Builder
	for _, m := range matches {
		sb.WriteString(m[1])
	}
	return sb.String()
}

// UnescapeString strips the escape sequences that producers sprinkle
// over otherwise plain JSON payloads.
func UnescapeString(text string) string {
	return strings.NewReplacer(
		`\'`, `'`,
		`\"`, `"`,
		`\n`, "\n",
		`\t`, "\t",
		`\>`, `>`,
		`\<`, `<`,
		`\[`, `[`,
		`\]`, `]`,
	).Replace(text)
}
