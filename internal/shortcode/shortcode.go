// Package shortcode decodes Deriv's compact contract-description strings
// ("CALL_R_100_19.54_1619506988_1619507288_S0P_0") into human-readable
// instrument and contract-type labels. Parsing is best-effort and never
// fails: structurally absent input yields "Unknown", while a token that is
// present but not in the lookup tables is returned as-is.
package shortcode

import "strings"

// Unknown is returned when the relevant part of the shortcode is
// structurally missing or unparseable.
const Unknown = "Unknown"

// symbolNames maps Deriv underlying symbol codes to display names.
// Shortcodes carry the codes uppercased.
var symbolNames = map[string]string{
	"R_10":     "Volatility 10 Index",
	"R_25":     "Volatility 25 Index",
	"R_50":     "Volatility 50 Index",
	"R_75":     "Volatility 75 Index",
	"R_100":    "Volatility 100 Index",
	"1HZ10V":   "Volatility 10 (1s) Index",
	"1HZ25V":   "Volatility 25 (1s) Index",
	"1HZ50V":   "Volatility 50 (1s) Index",
	"1HZ75V":   "Volatility 75 (1s) Index",
	"1HZ100V":  "Volatility 100 (1s) Index",
	"1HZ150V":  "Volatility 150 (1s) Index",
	"1HZ250V":  "Volatility 250 (1s) Index",
	"BOOM300N": "Boom 300 Index",
	"BOOM500":  "Boom 500 Index",
	"BOOM1000": "Boom 1000 Index",
	"CRASH300N": "Crash 300 Index",
	"CRASH500":  "Crash 500 Index",
	"CRASH1000": "Crash 1000 Index",
	"JD10":      "Jump 10 Index",
	"JD25":      "Jump 25 Index",
	"JD50":      "Jump 50 Index",
	"JD75":      "Jump 75 Index",
	"JD100":     "Jump 100 Index",
	"RDBEAR":    "Bear Market Index",
	"RDBULL":    "Bull Market Index",
	"STPRNG":    "Step Index",
	"OTC_SPC":   "US 500",
	"OTC_NDX":   "US Tech 100",
	"OTC_DJI":   "Wall Street 30",
	"OTC_FTSE":  "UK 100",
	"OTC_GDAXI": "Germany 40",
	"OTC_N225":  "Japan 225",
	"OTC_HSI":   "Hong Kong 50",
	"OTC_AEX":   "Netherlands 25",
	"OTC_SSMI":  "Swiss 20",
	"WLDAUD":    "AUD Basket",
	"WLDEUR":    "EUR Basket",
	"WLDGBP":    "GBP Basket",
	"WLDUSD":    "USD Basket",
	"WLDXAU":    "Gold Basket",
}

// contractTypes maps Deriv contract-type codes to display labels.
var contractTypes = map[string]string{
	"CALL":            "Rise",
	"PUT":             "Fall",
	"CALLE":           "Rise (Allow Equals)",
	"PUTE":            "Fall (Allow Equals)",
	"DIGITMATCH":      "Digit Matches",
	"DIGITDIFF":       "Digit Differs",
	"DIGITOVER":       "Digit Over",
	"DIGITUNDER":      "Digit Under",
	"DIGITEVEN":       "Digit Even",
	"DIGITODD":        "Digit Odd",
	"ONETOUCH":        "Touch",
	"NOTOUCH":         "No Touch",
	"RANGE":           "Stays Between",
	"UPORDOWN":        "Goes Outside",
	"EXPIRYRANGE":     "Ends Between",
	"EXPIRYMISS":      "Ends Outside",
	"MULTUP":          "Multiplier Up",
	"MULTDOWN":        "Multiplier Down",
	"ACCU":            "Accumulator",
	"TURBOSLONG":      "Turbos Long",
	"TURBOSSHORT":     "Turbos Short",
	"VANILLALONGCALL": "Vanilla Call",
	"VANILLALONGPUT":  "Vanilla Put",
	"RESETCALL":       "Reset Call",
	"RESETPUT":        "Reset Put",
	"TICKHIGH":        "High Tick",
	"TICKLOW":         "Low Tick",
	"RUNHIGH":         "Only Ups",
	"RUNLOW":          "Only Downs",
}

// ParseContractType returns the display label for the contract-type token
// (the first underscore-delimited token). An unrecognized token is returned
// verbatim; only a structurally missing token yields Unknown.
func ParseContractType(shortcode string) string {
	sc := strings.TrimSpace(shortcode)
	if sc == "" {
		return Unknown
	}
	tok := strings.ToUpper(strings.SplitN(sc, "_", 2)[0])
	if tok == "" {
		return Unknown
	}
	if label, ok := contractTypes[tok]; ok {
		return label
	}
	return tok
}

// ParseInstrument returns the display name of the underlying symbol encoded
// after the contract-type token. Symbol codes that themselves contain an
// underscore (R_100, OTC_SPC) span two tokens.
func ParseInstrument(shortcode string) string {
	sc := strings.TrimSpace(shortcode)
	if sc == "" {
		return Unknown
	}
	tokens := strings.Split(sc, "_")
	if len(tokens) < 2 || tokens[1] == "" {
		return Unknown
	}
	sym := strings.ToUpper(tokens[1])
	if (sym == "R" || sym == "OTC") && len(tokens) > 2 && tokens[2] != "" {
		sym = sym + "_" + strings.ToUpper(tokens[2])
	}
	if name, ok := symbolNames[sym]; ok {
		return name
	}
	if pair, ok := currencyPair(sym); ok {
		return pair
	}
	// Present but unrecognized: hand back the raw token, not Unknown.
	return sym
}

// currencyPair renders forex (FRXEURUSD) and crypto (CRYBTCUSD) codes as
// "EUR/USD" style pairs.
func currencyPair(sym string) (string, bool) {
	for _, prefix := range []string{"FRX", "CRY"} {
		if strings.HasPrefix(sym, prefix) && len(sym) == len(prefix)+6 {
			rest := sym[len(prefix):]
			return rest[:3] + "/" + rest[3:], true
		}
	}
	return "", false
}
