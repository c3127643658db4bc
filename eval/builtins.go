package eval

import (
	"crypto/md5"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"sort"
	"strings"
	"time"

	"github.com/dbschema/dbschema/internal/cerr"
	"github.com/dbschema/dbschema/value"
)

// builtins is the fixed registry of spec §6.5. Every entry is pure: no
// I/O, no hidden state beyond timestamp()'s wall-clock read.
var builtins = map[string]Builtin{
	"upper":     biUpper,
	"lower":     biLower,
	"length":    biLength,
	"substr":    biSubstr,
	"contains":  biContains,
	"startswith": biStartsWith,
	"endswith":  biEndsWith,
	"trim":      biTrim,
	"replace":   biReplace,

	"min": biMin,
	"max": biMax,
	"abs": biAbs,

	"concat":   biConcat,
	"flatten":  biFlatten,
	"distinct": biDistinct,
	"slice":    biSlice,
	"sort":     biSort,
	"reverse":  biReverse,
	"index":    biIndex,

	"coalesce": biCoalesce,
	"join":     biJoin,
	"split":    biSplit,

	"tostring": biToString,
	"tonumber": biToNumber,
	"tobool":   biToBool,
	"tolist":   biToList,
	"tomap":    biToMap,

	"md5":          biMD5,
	"sha256":       biSHA256,
	"sha512":       biSHA512,
	"base64encode": biBase64Encode,
	"base64decode": biBase64Decode,

	"timestamp":  biTimestamp,
	"formatdate": biFormatDate,
	"timeadd":    biTimeAdd,
	"timecmp":    biTimeCmp,
}

// --- String ---

func biUpper(args []value.Value, loc cerr.Location) (value.Value, error) {
	if err := arity(args, loc, "upper", 1); err != nil {
		return value.Value{}, err
	}
	s, err := wantString(args[0], loc, "upper", 1)
	if err != nil {
		return value.Value{}, err
	}
	return value.String(strings.ToUpper(s)), nil
}

func biLower(args []value.Value, loc cerr.Location) (value.Value, error) {
	if err := arity(args, loc, "lower", 1); err != nil {
		return value.Value{}, err
	}
	s, err := wantString(args[0], loc, "lower", 1)
	if err != nil {
		return value.Value{}, err
	}
	return value.String(strings.ToLower(s)), nil
}

// length works on strings, lists, and objects, matching spec §6.5's
// single-name overload across the collection and string groups.
func biLength(args []value.Value, loc cerr.Location) (value.Value, error) {
	if err := arity(args, loc, "length", 1); err != nil {
		return value.Value{}, err
	}
	switch args[0].Kind() {
	case value.KindString:
		return value.IntVal(int64(len([]rune(args[0].Str())))), nil
	case value.KindList:
		return value.IntVal(int64(len(args[0].List()))), nil
	case value.KindObject:
		return value.IntVal(int64(args[0].Object().Len())), nil
	default:
		return value.Value{}, cerr.New(cerr.KindArgumentType, loc, "length argument 1: expected string, list, or object, got %s", args[0].Kind())
	}
}

func biSubstr(args []value.Value, loc cerr.Location) (value.Value, error) {
	if err := arity(args, loc, "substr", 3); err != nil {
		return value.Value{}, err
	}
	s, err := wantString(args[0], loc, "substr", 1)
	if err != nil {
		return value.Value{}, err
	}
	start, err := wantNumber(args[1], loc, "substr", 2)
	if err != nil {
		return value.Value{}, err
	}
	length, err := wantNumber(args[2], loc, "substr", 3)
	if err != nil {
		return value.Value{}, err
	}
	r := []rune(s)
	st := int(start.Int64())
	ln := int(length.Int64())
	if st < 0 || st > len(r) {
		return value.Value{}, cerr.New(cerr.KindDivisionOrRange, loc, "substr: start %d out of range [0, %d]", st, len(r))
	}
	end := st + ln
	if ln < 0 || end > len(r) {
		end = len(r)
	}
	return value.String(string(r[st:end])), nil
}

func biContains(args []value.Value, loc cerr.Location) (value.Value, error) {
	if err := arity(args, loc, "contains", 2); err != nil {
		return value.Value{}, err
	}
	s, err := wantString(args[0], loc, "contains", 1)
	if err != nil {
		return value.Value{}, err
	}
	sub, err := wantString(args[1], loc, "contains", 2)
	if err != nil {
		return value.Value{}, err
	}
	return value.Bool(strings.Contains(s, sub)), nil
}

func biStartsWith(args []value.Value, loc cerr.Location) (value.Value, error) {
	if err := arity(args, loc, "startswith", 2); err != nil {
		return value.Value{}, err
	}
	s, err := wantString(args[0], loc, "startswith", 1)
	if err != nil {
		return value.Value{}, err
	}
	p, err := wantString(args[1], loc, "startswith", 2)
	if err != nil {
		return value.Value{}, err
	}
	return value.Bool(strings.HasPrefix(s, p)), nil
}

func biEndsWith(args []value.Value, loc cerr.Location) (value.Value, error) {
	if err := arity(args, loc, "endswith", 2); err != nil {
		return value.Value{}, err
	}
	s, err := wantString(args[0], loc, "endswith", 1)
	if err != nil {
		return value.Value{}, err
	}
	p, err := wantString(args[1], loc, "endswith", 2)
	if err != nil {
		return value.Value{}, err
	}
	return value.Bool(strings.HasSuffix(s, p)), nil
}

func biTrim(args []value.Value, loc cerr.Location) (value.Value, error) {
	if err := arity(args, loc, "trim", 1); err != nil {
		return value.Value{}, err
	}
	s, err := wantString(args[0], loc, "trim", 1)
	if err != nil {
		return value.Value{}, err
	}
	return value.String(strings.TrimSpace(s)), nil
}

func biReplace(args []value.Value, loc cerr.Location) (value.Value, error) {
	if err := arity(args, loc, "replace", 3); err != nil {
		return value.Value{}, err
	}
	s, err := wantString(args[0], loc, "replace", 1)
	if err != nil {
		return value.Value{}, err
	}
	search, err := wantString(args[1], loc, "replace", 2)
	if err != nil {
		return value.Value{}, err
	}
	with, err := wantString(args[2], loc, "replace", 3)
	if err != nil {
		return value.Value{}, err
	}
	return value.String(strings.ReplaceAll(s, search, with)), nil
}

// --- Numeric ---

func biMin(args []value.Value, loc cerr.Location) (value.Value, error) {
	if err := arityRange(args, loc, "min", 1, -1); err != nil {
		return value.Value{}, err
	}
	return minmax(args, loc, "min", -1)
}

func biMax(args []value.Value, loc cerr.Location) (value.Value, error) {
	if err := arityRange(args, loc, "max", 1, -1); err != nil {
		return value.Value{}, err
	}
	return minmax(args, loc, "max", 1)
}

func minmax(args []value.Value, loc cerr.Location, name string, want int) (value.Value, error) {
	best, err := wantNumber(args[0], loc, name, 1)
	if err != nil {
		return value.Value{}, err
	}
	for i, a := range args[1:] {
		n, err := wantNumber(a, loc, name, i+2)
		if err != nil {
			return value.Value{}, err
		}
		if n.Compare(best)*want > 0 {
			best = n
		}
	}
	return value.NumberVal(best), nil
}

func biAbs(args []value.Value, loc cerr.Location) (value.Value, error) {
	if err := arity(args, loc, "abs", 1); err != nil {
		return value.Value{}, err
	}
	n, err := wantNumber(args[0], loc, "abs", 1)
	if err != nil {
		return value.Value{}, err
	}
	if n.IsInt() {
		i := n.Int64()
		if i < 0 {
			i = -i
		}
		return value.IntVal(i), nil
	}
	f := n.Float64()
	if f < 0 {
		f = -f
	}
	return value.FloatVal(f), nil
}

// --- Collections ---

func biConcat(args []value.Value, loc cerr.Location) (value.Value, error) {
	if err := arityRange(args, loc, "concat", 1, -1); err != nil {
		return value.Value{}, err
	}
	var out []value.Value
	for i, a := range args {
		l, err := wantList(a, loc, "concat", i+1)
		if err != nil {
			return value.Value{}, err
		}
		out = append(out, l...)
	}
	return value.List(out...), nil
}

func biFlatten(args []value.Value, loc cerr.Location) (value.Value, error) {
	if err := arity(args, loc, "flatten", 1); err != nil {
		return value.Value{}, err
	}
	l, err := wantList(args[0], loc, "flatten", 1)
	if err != nil {
		return value.Value{}, err
	}
	var out []value.Value
	var walk func([]value.Value)
	walk = func(items []value.Value) {
		for _, it := range items {
			if it.Kind() == value.KindList {
				walk(it.List())
			} else {
				out = append(out, it)
			}
		}
	}
	walk(l)
	return value.List(out...), nil
}

func biDistinct(args []value.Value, loc cerr.Location) (value.Value, error) {
	if err := arity(args, loc, "distinct", 1); err != nil {
		return value.Value{}, err
	}
	l, err := wantList(args[0], loc, "distinct", 1)
	if err != nil {
		return value.Value{}, err
	}
	var out []value.Value
	for _, it := range l {
		dup := false
		for _, seen := range out {
			if seen.Equal(it) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, it)
		}
	}
	return value.List(out...), nil
}

func biSlice(args []value.Value, loc cerr.Location) (value.Value, error) {
	if err := arity(args, loc, "slice", 3); err != nil {
		return value.Value{}, err
	}
	l, err := wantList(args[0], loc, "slice", 1)
	if err != nil {
		return value.Value{}, err
	}
	start, err := wantNumber(args[1], loc, "slice", 2)
	if err != nil {
		return value.Value{}, err
	}
	end, err := wantNumber(args[2], loc, "slice", 3)
	if err != nil {
		return value.Value{}, err
	}
	st, en := int(start.Int64()), int(end.Int64())
	if st < 0 || en < st || en > len(l) {
		return value.Value{}, cerr.New(cerr.KindDivisionOrRange, loc, "slice: range [%d, %d) out of bounds for length %d", st, en, len(l))
	}
	return value.List(l[st:en]...), nil
}

func biSort(args []value.Value, loc cerr.Location) (value.Value, error) {
	if err := arity(args, loc, "sort", 1); err != nil {
		return value.Value{}, err
	}
	l, err := wantList(args[0], loc, "sort", 1)
	if err != nil {
		return value.Value{}, err
	}
	out := append([]value.Value(nil), l...)
	var sortErr error
	sort.SliceStable(out, func(i, j int) bool {
		if sortErr != nil {
			return false
		}
		switch out[i].Kind() {
		case value.KindString:
			sj, err := out[j].ToString()
			if err != nil {
				sortErr = cerr.New(cerr.KindArgumentType, loc, "sort: mixed element types")
				return false
			}
			si, _ := out[i].ToString()
			return si < sj
		case value.KindNumber:
			if out[j].Kind() != value.KindNumber {
				sortErr = cerr.New(cerr.KindArgumentType, loc, "sort: mixed element types")
				return false
			}
			return out[i].Number().Compare(out[j].Number()) < 0
		default:
			sortErr = cerr.New(cerr.KindArgumentType, loc, "sort: unsupported element type %s", out[i].Kind())
			return false
		}
	})
	if sortErr != nil {
		return value.Value{}, sortErr
	}
	return value.List(out...), nil
}

func biReverse(args []value.Value, loc cerr.Location) (value.Value, error) {
	if err := arity(args, loc, "reverse", 1); err != nil {
		return value.Value{}, err
	}
	l, err := wantList(args[0], loc, "reverse", 1)
	if err != nil {
		return value.Value{}, err
	}
	out := make([]value.Value, len(l))
	for i, v := range l {
		out[len(l)-1-i] = v
	}
	return value.List(out...), nil
}

func biIndex(args []value.Value, loc cerr.Location) (value.Value, error) {
	if err := arity(args, loc, "index", 2); err != nil {
		return value.Value{}, err
	}
	l, err := wantList(args[0], loc, "index", 1)
	if err != nil {
		return value.Value{}, err
	}
	for i, v := range l {
		if v.Equal(args[1]) {
			return value.IntVal(int64(i)), nil
		}
	}
	return value.Value{}, cerr.New(cerr.KindMissingKey, loc, "index: value not found in list")
}

// --- Misc ---

func biCoalesce(args []value.Value, loc cerr.Location) (value.Value, error) {
	if err := arityRange(args, loc, "coalesce", 1, -1); err != nil {
		return value.Value{}, err
	}
	for _, a := range args {
		if !a.IsNull() {
			return a, nil
		}
	}
	return value.Null(), nil
}

func biJoin(args []value.Value, loc cerr.Location) (value.Value, error) {
	if err := arity(args, loc, "join", 2); err != nil {
		return value.Value{}, err
	}
	sep, err := wantString(args[0], loc, "join", 1)
	if err != nil {
		return value.Value{}, err
	}
	l, err := wantList(args[1], loc, "join", 2)
	if err != nil {
		return value.Value{}, err
	}
	parts := make([]string, 0, len(l))
	for i, v := range l {
		s, err := wantString(v, loc, "join", i+2)
		if err != nil {
			return value.Value{}, err
		}
		parts = append(parts, s)
	}
	return value.String(strings.Join(parts, sep)), nil
}

func biSplit(args []value.Value, loc cerr.Location) (value.Value, error) {
	if err := arity(args, loc, "split", 2); err != nil {
		return value.Value{}, err
	}
	sep, err := wantString(args[0], loc, "split", 1)
	if err != nil {
		return value.Value{}, err
	}
	s, err := wantString(args[1], loc, "split", 2)
	if err != nil {
		return value.Value{}, err
	}
	parts := strings.Split(s, sep)
	out := make([]value.Value, len(parts))
	for i, p := range parts {
		out[i] = value.String(p)
	}
	return value.List(out...), nil
}

// --- Conversion ---

func biToString(args []value.Value, loc cerr.Location) (value.Value, error) {
	if err := arity(args, loc, "tostring", 1); err != nil {
		return value.Value{}, err
	}
	s, err := args[0].ToString()
	if err != nil {
		return value.Value{}, cerr.New(cerr.KindTypeMismatch, loc, "tostring: %v", err)
	}
	return value.String(s), nil
}

func biToNumber(args []value.Value, loc cerr.Location) (value.Value, error) {
	if err := arity(args, loc, "tonumber", 1); err != nil {
		return value.Value{}, err
	}
	n, err := args[0].ToNumber()
	if err != nil {
		return value.Value{}, cerr.New(cerr.KindTypeMismatch, loc, "tonumber: %v", err)
	}
	return value.NumberVal(n), nil
}

func biToBool(args []value.Value, loc cerr.Location) (value.Value, error) {
	if err := arity(args, loc, "tobool", 1); err != nil {
		return value.Value{}, err
	}
	b, err := args[0].ToBool()
	if err != nil {
		return value.Value{}, cerr.New(cerr.KindTypeMismatch, loc, "tobool: %v", err)
	}
	return value.Bool(b), nil
}

func biToList(args []value.Value, loc cerr.Location) (value.Value, error) {
	if err := arity(args, loc, "tolist", 1); err != nil {
		return value.Value{}, err
	}
	switch args[0].Kind() {
	case value.KindList:
		return args[0], nil
	case value.KindObject:
		obj := args[0].Object()
		out := make([]value.Value, 0, obj.Len())
		for _, k := range obj.SortedKeys() {
			v, _ := obj.Get(k)
			out = append(out, v)
		}
		return value.List(out...), nil
	default:
		return value.Value{}, cerr.New(cerr.KindTypeMismatch, loc, "tolist: cannot convert %s to list", args[0].Kind())
	}
}

func biToMap(args []value.Value, loc cerr.Location) (value.Value, error) {
	if err := arity(args, loc, "tomap", 1); err != nil {
		return value.Value{}, err
	}
	if args[0].Kind() != value.KindObject {
		return value.Value{}, cerr.New(cerr.KindTypeMismatch, loc, "tomap: cannot convert %s to map", args[0].Kind())
	}
	return args[0], nil
}

// --- Crypto / encoding ---

func biMD5(args []value.Value, loc cerr.Location) (value.Value, error) {
	if err := arity(args, loc, "md5", 1); err != nil {
		return value.Value{}, err
	}
	s, err := wantString(args[0], loc, "md5", 1)
	if err != nil {
		return value.Value{}, err
	}
	sum := md5.Sum([]byte(s))
	return value.String(hex.EncodeToString(sum[:])), nil
}

func biSHA256(args []value.Value, loc cerr.Location) (value.Value, error) {
	if err := arity(args, loc, "sha256", 1); err != nil {
		return value.Value{}, err
	}
	s, err := wantString(args[0], loc, "sha256", 1)
	if err != nil {
		return value.Value{}, err
	}
	sum := sha256.Sum256([]byte(s))
	return value.String(hex.EncodeToString(sum[:])), nil
}

func biSHA512(args []value.Value, loc cerr.Location) (value.Value, error) {
	if err := arity(args, loc, "sha512", 1); err != nil {
		return value.Value{}, err
	}
	s, err := wantString(args[0], loc, "sha512", 1)
	if err != nil {
		return value.Value{}, err
	}
	sum := sha512.Sum512([]byte(s))
	return value.String(hex.EncodeToString(sum[:])), nil
}

func biBase64Encode(args []value.Value, loc cerr.Location) (value.Value, error) {
	if err := arity(args, loc, "base64encode", 1); err != nil {
		return value.Value{}, err
	}
	s, err := wantString(args[0], loc, "base64encode", 1)
	if err != nil {
		return value.Value{}, err
	}
	return value.String(base64.StdEncoding.EncodeToString([]byte(s))), nil
}

func biBase64Decode(args []value.Value, loc cerr.Location) (value.Value, error) {
	if err := arity(args, loc, "base64decode", 1); err != nil {
		return value.Value{}, err
	}
	s, err := wantString(args[0], loc, "base64decode", 1)
	if err != nil {
		return value.Value{}, err
	}
	dec, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return value.Value{}, cerr.New(cerr.KindArgumentType, loc, "base64decode: %v", err)
	}
	return value.String(string(dec)), nil
}

// --- Datetime ---

func biTimestamp(args []value.Value, loc cerr.Location) (value.Value, error) {
	if err := arity(args, loc, "timestamp", 0); err != nil {
		return value.Value{}, err
	}
	return value.String(time.Now().UTC().Format(time.RFC3339)), nil
}

func biFormatDate(args []value.Value, loc cerr.Location) (value.Value, error) {
	if err := arity(args, loc, "formatdate", 2); err != nil {
		return value.Value{}, err
	}
	layout, err := wantString(args[0], loc, "formatdate", 1)
	if err != nil {
		return value.Value{}, err
	}
	ts, err := wantString(args[1], loc, "formatdate", 2)
	if err != nil {
		return value.Value{}, err
	}
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return value.Value{}, cerr.New(cerr.KindArgumentType, loc, "formatdate: %v", err)
	}
	return value.String(t.Format(goLayout(layout))), nil
}

// goLayout translates the small subset of Terraform's formatdate tokens
// this registry supports into Go's reference-time layout.
func goLayout(spec string) string {
	r := strings.NewReplacer(
		"YYYY", "2006", "YY", "06",
		"MM", "01", "DD", "02",
		"hh", "15", "mm", "04", "ss", "05",
	)
	return r.Replace(spec)
}

func biTimeAdd(args []value.Value, loc cerr.Location) (value.Value, error) {
	if err := arity(args, loc, "timeadd", 2); err != nil {
		return value.Value{}, err
	}
	ts, err := wantString(args[0], loc, "timeadd", 1)
	if err != nil {
		return value.Value{}, err
	}
	dur, err := wantString(args[1], loc, "timeadd", 2)
	if err != nil {
		return value.Value{}, err
	}
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return value.Value{}, cerr.New(cerr.KindArgumentType, loc, "timeadd: %v", err)
	}
	d, err := time.ParseDuration(dur)
	if err != nil {
		return value.Value{}, cerr.New(cerr.KindArgumentType, loc, "timeadd: %v", err)
	}
	return value.String(t.Add(d).Format(time.RFC3339)), nil
}

func biTimeCmp(args []value.Value, loc cerr.Location) (value.Value, error) {
	if err := arity(args, loc, "timecmp", 2); err != nil {
		return value.Value{}, err
	}
	as, err := wantString(args[0], loc, "timecmp", 1)
	if err != nil {
		return value.Value{}, err
	}
	bs, err := wantString(args[1], loc, "timecmp", 2)
	if err != nil {
		return value.Value{}, err
	}
	a, err := time.Parse(time.RFC3339, as)
	if err != nil {
		return value.Value{}, cerr.New(cerr.KindArgumentType, loc, "timecmp: %v", err)
	}
	b, err := time.Parse(time.RFC3339, bs)
	if err != nil {
		return value.Value{}, cerr.New(cerr.KindArgumentType, loc, "timecmp: %v", err)
	}
	switch {
	case a.Before(b):
		return value.IntVal(-1), nil
	case a.After(b):
		return value.IntVal(1), nil
	default:
		return value.IntVal(0), nil
	}
}
