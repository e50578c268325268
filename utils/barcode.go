package utils

// Barcode helpers for scanned product codes. UPC-E is the compressed 8-digit
// form; lookups against the food database expect the expanded UPC-A/EAN-13.

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return len(s) > 0
}

// NormalizeBarcode expands an 8-digit UPC-E code to its 12-digit UPC-A form.
// Anything that is not exactly 8 digits is returned unchanged — 12/13 digit
// codes are assumed to already be UPC-A/EAN-13 and are validated separately.
//
// The expansion is keyed off the sixth body digit. The trailing check digit of
// the UPC-E input is carried over as-is (a UPC-E check digit is computed over
// the expanded form, so it transfers without recomputation); the output is not
// checksum-verified here.
func NormalizeBarcode(raw string) string {
	if len(raw) != 8 || !isDigits(raw) {
		return raw
	}

	ns := raw[:1]    // number system digit
	body := raw[1:7] // A..F
	check := raw[7:]

	var expanded string
	switch f := body[5]; {
	case f <= '2':
		// NS + A + B + F + "0000" + C + D + E
		expanded = ns + body[0:2] + string(f) + "0000" + body[2:5]
	case f == '3':
		// NS + A + B + C + "00000" + D + E
		expanded = ns + body[0:3] + "00000" + body[3:5]
	case f == '4':
		// NS + A + B + C + D + "00000" + E
		expanded = ns + body[0:4] + "00000" + body[4:5]
	default:
		// NS + A + B + C + D + E + "0000" + F
		expanded = ns + body[0:5] + "0000" + string(f)
	}

	return expanded + check
}

// PadToEAN13 left-pads a 12-digit UPC-A code with a single zero to the
// 13-digit EAN form. Other lengths are returned unchanged.
func PadToEAN13(code string) string {
	if len(code) == 12 && isDigits(code) {
		return "0" + code
	}
	return code
}

// ValidateEAN13 reports whether code is a well-formed EAN-13 with a correct
// check digit. Inputs that are not exactly 13 digits are simply invalid; this
// never panics on malformed strings.
func ValidateEAN13(code string) bool {
	if len(code) != 13 || !isDigits(code) {
		return false
	}

	sum := 0
	for i := 0; i < 12; i++ {
		d := int(code[i] - '0')
		if i%2 == 1 {
			d *= 3
		}
		sum += d
	}
	check := (10 - sum%10) % 10

	return check == int(code[12]-'0')
}
