package doctree

import "strings"

// naturalLess orders names so that runs of digits compare by value: "2-setup"
// sorts before "10-intro". Names equal under that rule fall back to a plain
// string comparison.
func naturalLess(a, b string) bool {
	ai, bi := 0, 0
	for ai < len(a) && bi < len(b) {
		ca, cb := a[ai], b[bi]
		if isDigit(ca) && isDigit(cb) {
			as, ae := digitRun(a, ai)
			bs, be := digitRun(b, bi)
			if c := compareNumeric(a[as:ae], b[bs:be]); c != 0 {
				return c < 0
			}
			ai, bi = ae, be
			continue
		}
		if ca != cb {
			return ca < cb
		}
		ai++
		bi++
	}
	if len(a)-ai != len(b)-bi {
		return len(a)-ai < len(b)-bi
	}
	return a < b
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// digitRun returns the run of digits starting at i with leading zeros
// excluded from the start offset.
func digitRun(s string, i int) (start, end int) {
	end = i
	for end < len(s) && isDigit(s[end]) {
		end++
	}
	start = i
	for start < end-1 && s[start] == '0' {
		start++
	}
	return start, end
}

func compareNumeric(a, b string) int {
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}
