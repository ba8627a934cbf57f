package sqldb

import (
	"fmt"
	"strconv"
	"strings"
)

var PlaceholderPrefixForDBType = map[string]byte{
	"mysql": '?',
	"pgsql": '$',
}

// PlaceholdersGF returns a generator producing a placeholder list
// for the given prefix byte. length, then optional start ordinal.
func PlaceholdersGF(baseChar byte) func(int, ...int) []string {
	if baseChar == '?' || baseChar == 0 {
		return func(length int, _ ...int) []string {
			placeholders := make([]string, length)
			for i := range placeholders {
				placeholders[i] = "?"
			}
			return placeholders
		}
	}
	return func(length int, startIndex ...int) []string {
		placeholders := make([]string, length)
		startI := 1
		if len(startIndex) > 0 {
			startI = startIndex[0]
		}
		cnt := startI
		for i := range placeholders {
			placeholders[i] = fmt.Sprintf("%c%d", baseChar, cnt)
			cnt++
		}
		return placeholders
	}
}

// JoinedPlaceholders - comma-joined list for IN (...) clauses
func JoinedPlaceholders(baseChar byte, length int, start ...int) string {
	return strings.Join(PlaceholdersGF(baseChar)(length, start...), ", ")
}

// ReplaceStaticPlaceholders converts standard-SQL `?` placeholders to the
// dialect's ordinal form. Dynamic `??` placeholders are left untouched.
func ReplaceStaticPlaceholders(sql string, prefix byte) string {
	if prefix == '?' || prefix == 0 {
		return sql
	}
	var builder strings.Builder
	builder.Grow(len(sql) + 8)
	cnt := 1
	i := 0
	for i < len(sql) {
		if sql[i] == '?' {
			// Do Not Touch Dynamic Placeholders '??'
			if i+1 < len(sql) && sql[i+1] == '?' {
				builder.WriteByte('?')
				builder.WriteByte('?')
				i += 2
				continue
			}
			builder.WriteByte(prefix)
			builder.WriteString(strconv.Itoa(cnt))
			cnt++
		} else {
			builder.WriteByte(sql[i])
		}
		i++
	}
	return builder.String()
}

// ExpandDynamicPlaceholders expands each `??` marker into a list of counts[i]
// placeholders, numbering ordinals from start for prefixed dialects.
func ExpandDynamicPlaceholders(sql string, prefix byte, counts []int, start int) (string, error) {
	if prefix == '?' || prefix == 0 {
		return expandAnonymousPlaceholders(sql, counts)
	}
	return expandOrdinalPlaceholders(sql, prefix, counts, start)
}

// special case: '?', no numbering
func expandAnonymousPlaceholders(sql string, counts []int) (string, error) {
	const symbol = "??"
	var b strings.Builder
	b.Grow(len(sql) + 16*len(counts))

	i := 0
	countIndex := 0

	for {
		j := strings.Index(sql[i:], symbol)
		if j == -1 {
			b.WriteString(sql[i:])
			break
		}

		b.WriteString(sql[i : i+j])
		i += j + len(symbol) // const len -> compile-time optimized

		if countIndex >= len(counts) {
			return "", fmt.Errorf("expandAnonymousPlaceholders: not enough counts for %q", symbol)
		}

		n := counts[countIndex]
		countIndex++

		for k := 0; k < n; k++ {
			if k > 0 {
				b.WriteString(", ")
			}
			b.WriteByte('?')
		}
	}

	if countIndex < len(counts) {
		return "", fmt.Errorf("expandAnonymousPlaceholders: too many counts for %q", symbol)
	}

	return b.String(), nil
}

func expandOrdinalPlaceholders(sql string, prefix byte, counts []int, start int) (string, error) {
	const symbol = "??"
	var b strings.Builder
	b.Grow(len(sql) + 16*len(counts))

	i := 0
	countIndex := 0
	ord := start

	for {
		j := strings.Index(sql[i:], symbol)
		if j == -1 {
			b.WriteString(sql[i:])
			break
		}

		b.WriteString(sql[i : i+j])
		i += j + len(symbol)

		if countIndex >= len(counts) {
			return "", fmt.Errorf("expandOrdinalPlaceholders: not enough counts for %q", symbol)
		}

		n := counts[countIndex]
		countIndex++

		for k := 0; k < n; k++ {
			if k > 0 {
				b.WriteString(", ")
			}
			b.WriteByte(prefix)
			b.WriteString(strconv.Itoa(ord))
			ord++
		}
	}

	if countIndex < len(counts) {
		return "", fmt.Errorf("expandOrdinalPlaceholders: too many counts for %q", symbol)
	}

	return b.String(), nil
}
