package script

import (
	"fmt"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"bridgewright/pkg/export"
	"bridgewright/pkg/staad"
	"bridgewright/pkg/truss"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms preset source code before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: self-weight -> self_weight
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, b[i+1:j]...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when the hyphen sits between identifier characters (not a
		// minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isLetter(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toInt extracts an int from a SexpInt.
func toInt(s zygo.Sexp) (int, error) {
	if v, ok := s.(*zygo.SexpInt); ok {
		return int(v.Val), nil
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toBool extracts a bool from a SexpBool.
func toBool(s zygo.Sexp) (bool, error) {
	if b, ok := s.(*zygo.SexpBool); ok {
		return b.Val, nil
	}
	return false, fmt.Errorf("expected true or false, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_pratt) and plain strings ("pratt").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

// toTopology converts a keyword or string to a truss.Topology.
func toTopology(s zygo.Sexp) (truss.Topology, error) {
	name, err := toKeywordString(s)
	if err != nil {
		return 0, fmt.Errorf("expected topology keyword (:pratt, :warren, :howe, :bowstring): %w", err)
	}
	return truss.ParseTopology(name)
}

// toSupportKind converts a keyword or string to a staad.SupportKind.
func toSupportKind(s zygo.Sexp) (staad.SupportKind, error) {
	name, err := toKeywordString(s)
	if err != nil {
		return "", fmt.Errorf("expected support keyword (:fixed, :pinned, :roller): %w", err)
	}
	switch strings.ToLower(name) {
	case "fixed":
		return staad.SupportFixed, nil
	case "pinned":
		return staad.SupportPinned, nil
	case "roller":
		return staad.SupportRoller, nil
	}
	return "", fmt.Errorf("invalid support %q, expected fixed, pinned, or roller", name)
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the preset DSL builtins into a zygomys
// environment. The builtins overlay values onto cfg, so a preset only
// needs to name the fields it changes from the defaults.
//
// Source code must be preprocessed with preprocessSource() before
// evaluation so that :keyword tokens become recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, cfg *export.Config) {

	// -----------------------------------------------------------------------
	// (bridge :type :pratt :span 120 :height 20 :panels 8
	//         :units "Feet / Kip" :chord "W21X50" :diag "L40404"
	//         :dead 1.2 :live 20 :wind 0.6 :self-weight true
	//         :support-left :fixed :support-right :pinned)
	// -----------------------------------------------------------------------
	env.AddFunction("bridge", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)

		if v, ok := pa.kw["type"]; ok {
			t, err := toTopology(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("bridge: type: %w", err)
			}
			cfg.Truss.Topology = t
		}
		if v, ok := pa.kw["span"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("bridge: span: %w", err)
			}
			cfg.Truss.Span = f
		}
		if v, ok := pa.kw["height"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("bridge: height: %w", err)
			}
			cfg.Truss.Height = f
		}
		if v, ok := pa.kw["panels"]; ok {
			n, err := toInt(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("bridge: panels: %w", err)
			}
			cfg.Truss.Panels = n
		}
		if v, ok := pa.kw["units"]; ok {
			s, err := toString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("bridge: units: %w", err)
			}
			if _, err := staad.UnitSystemByName(s); err != nil {
				return zygo.SexpNull, fmt.Errorf("bridge: units: %w", err)
			}
			cfg.Units = s
		}
		if v, ok := pa.kw["chord"]; ok {
			s, err := toString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("bridge: chord: %w", err)
			}
			cfg.ChordSection = s
		}
		if v, ok := pa.kw["diag"]; ok {
			s, err := toString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("bridge: diag: %w", err)
			}
			cfg.DiagonalSection = s
		}
		if v, ok := pa.kw["dead"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("bridge: dead: %w", err)
			}
			cfg.DeadLoad = f
		}
		if v, ok := pa.kw["live"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("bridge: live: %w", err)
			}
			cfg.LiveLoad = f
		}
		if v, ok := pa.kw["wind"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("bridge: wind: %w", err)
			}
			cfg.WindLoad = f
		}
		if v, ok := pa.kw["self-weight"]; ok {
			b, err := toBool(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("bridge: self-weight: %w", err)
			}
			cfg.SelfWeight = b
		}
		if v, ok := pa.kw["support-left"]; ok {
			k, err := toSupportKind(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("bridge: support-left: %w", err)
			}
			cfg.SupportLeft = k
		}
		if v, ok := pa.kw["support-right"]; ok {
			k, err := toSupportKind(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("bridge: support-right: %w", err)
			}
			cfg.SupportRight = k
		}

		return zygo.SexpNull, nil
	})
}
