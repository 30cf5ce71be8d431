// Package currency holds the country-to-currency reference data used when a
// trip is created. It is pure lookup — no state, no I/O.
package currency

import "sort"

// Country pairs an ISO 3166-1 alpha-2 country code with its display name and
// primary ISO 4217 currency code.
type Country struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Currency string `json:"currency"`
}

// overrides wins over the general table for territories whose CLDR-derived
// currency is wrong or ambiguous for this application.
var overrides = map[string]string{
	"KR": "KRW",
	"RU": "RUB",
	"TW": "TWD",
}

// countries is the reference table, keyed by alpha-2 code.
// Names are the Korean territory names, matching the front end's locale.
var countries = map[string]Country{
	"AU": {"AU", "호주", "AUD"},
	"AT": {"AT", "오스트리아", "EUR"},
	"BR": {"BR", "브라질", "BRL"},
	"CA": {"CA", "캐나다", "CAD"},
	"CH": {"CH", "스위스", "CHF"},
	"CN": {"CN", "중국", "CNY"},
	"CZ": {"CZ", "체코", "CZK"},
	"DE": {"DE", "독일", "EUR"},
	"DK": {"DK", "덴마크", "DKK"},
	"EG": {"EG", "이집트", "EGP"},
	"ES": {"ES", "스페인", "EUR"},
	"FR": {"FR", "프랑스", "EUR"},
	"GB": {"GB", "영국", "GBP"},
	"GR": {"GR", "그리스", "EUR"},
	"HK": {"HK", "홍콩", "HKD"},
	"HU": {"HU", "헝가리", "HUF"},
	"ID": {"ID", "인도네시아", "IDR"},
	"IN": {"IN", "인도", "INR"},
	"IT": {"IT", "이탈리아", "EUR"},
	"JP": {"JP", "일본", "JPY"},
	"KH": {"KH", "캄보디아", "KHR"},
	"KR": {"KR", "대한민국", "KRW"},
	"LA": {"LA", "라오스", "LAK"},
	"MN": {"MN", "몽골", "MNT"},
	"MO": {"MO", "마카오", "MOP"},
	"MX": {"MX", "멕시코", "MXN"},
	"MY": {"MY", "말레이시아", "MYR"},
	"NL": {"NL", "네덜란드", "EUR"},
	"NO": {"NO", "노르웨이", "NOK"},
	"NZ": {"NZ", "뉴질랜드", "NZD"},
	"PH": {"PH", "필리핀", "PHP"},
	"PL": {"PL", "폴란드", "PLN"},
	"PT": {"PT", "포르투갈", "EUR"},
	"RU": {"RU", "러시아", "RUB"},
	"SE": {"SE", "스웨덴", "SEK"},
	"SG": {"SG", "싱가포르", "SGD"},
	"TH": {"TH", "태국", "THB"},
	"TR": {"TR", "튀르키예", "TRY"},
	"TW": {"TW", "대만", "TWD"},
	"US": {"US", "미국", "USD"},
	"VN": {"VN", "베트남", "VND"},
}

// priority lists the country codes pinned to the top of the Countries listing,
// in this order. These are the most common destinations for the app's users.
var priority = []string{"CN", "HK", "JP"}

// CountryCurrency returns the primary currency for a given ISO country code.
// The second return value is false when the country is unknown or has no
// currency in the reference table.
func CountryCurrency(countryCode string) (string, bool) {
	if ccy, ok := overrides[countryCode]; ok {
		return ccy, true
	}
	c, ok := countries[countryCode]
	if !ok {
		return "", false
	}
	return c.Currency, true
}

// Countries returns the full reference table for the destination picker:
// priority countries first (in priority order), the rest sorted by name.
func Countries() []Country {
	rest := make([]Country, 0, len(countries))
	pinned := make([]Country, 0, len(priority))

	for _, code := range priority {
		if c, ok := countries[code]; ok {
			pinned = append(pinned, c)
		}
	}

	for code, c := range countries {
		if isPriority(code) {
			continue
		}
		rest = append(rest, c)
	}
	sort.Slice(rest, func(i, j int) bool { return rest[i].Name < rest[j].Name })

	return append(pinned, rest...)
}

func isPriority(code string) bool {
	for _, p := range priority {
		if p == code {
			return true
		}
	}
	return false
}
