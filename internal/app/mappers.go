package app

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

/********** feed field aliases **********/

var hotelAliases = map[string][]string{
	"name":         {"name", "hotel_name"},
	"description":  {"description", "markdown_description", "description_long"},
	"street":       {"address.street", "address.line", "address.addressLine1", "street", "location_street"},
	"email":        {"email", "contact.email"},
	"phone":        {"phone", "contact_number", "contact.phone"},
	"country_code": {"address.country_code", "address.country", "country_code", "countryCode"},
	"country_name": {"address.country_name", "country_name"},
	"city":         {"address.city", "city", "locality", "town"},
}

var roomAliases = map[string][]string{
	"label": {"name", "room_name", "reservation_item", "label"},
	"usd":   {"price_usd", "priceinfo_usd", "prices.usd"},
	"lkr":   {"price_lkr", "priceinfo_lkr", "prices.lkr"},
}

/********** payload access **********/

// lookupAny walks a dot path through nested maps; nil when any hop is missing.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// lookupStr is lookupAny narrowed to a string.
func lookupStr(m map[string]any, path string) string {
	if v := lookupAny(m, path); v != nil {
		if s, ok := v.(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// firstNonEmptyAlias tries each alias path for key in order.
func firstNonEmptyAlias(m map[string]any, aliases map[string][]string, key string) *string {
	for _, p := range aliases[key] {
		if s := lookupStr(m, p); s != "" {
			return &s
		}
	}
	return nil
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// firstSliceStrings collects list entries given as bare strings or as objects with url, src or name.
func firstSliceStrings(m map[string]any, paths ...string) []string {
	for _, k := range paths {
		if raw, ok := lookupAny(m, k).([]any); ok {
			out := make([]string, 0, len(raw))
			for _, it := range raw {
				switch t := it.(type) {
				case string:
					if t = strings.TrimSpace(t); t != "" {
						out = append(out, t)
					}
				case map[string]any:
					for _, f := range []string{"url", "src", "name", "label"} {
						if u, ok := t[f].(string); ok && strings.TrimSpace(u) != "" {
							out = append(out, strings.TrimSpace(u))
							break
						}
					}
				}
			}
			if len(out) > 0 {
				return out
			}
		}
	}
	return nil
}

// priceFlexible: price from several paths (float64/string like "12,50").
// Floats are rounded to the persisted scale; strings pass through for validation.
func priceFlexible(m map[string]any, paths ...string) *json.Number {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case float64:
			n := json.Number(decimal.NewFromFloat(v).StringFixed(2))
			return &n
		case string:
			s := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
			if s == "" {
				continue
			}
			if _, err := strconv.ParseFloat(s, 64); err != nil {
				continue
			}
			n := json.Number(s)
			return &n
		}
	}
	return nil
}

/********** feed hotel mapper **********/

type feedHotel struct {
	Name        *string
	Description *string
	Street      *string
	Email       *string
	Phone       *string
	CountryCode string
	CountryName string
	CityName    string
	Experiences []string
	Amenities   []string
	Images      []string
	Rooms       []ReservationItemInput
}

func mapFeedHotel(p map[string]any) feedHotel {
	fh := feedHotel{
		Name:        firstNonEmptyAlias(p, hotelAliases, "name"),
		Description: firstNonEmptyAlias(p, hotelAliases, "description"),
		Street:      firstNonEmptyAlias(p, hotelAliases, "street"),
		Email:       firstNonEmptyAlias(p, hotelAliases, "email"),
		Phone:       firstNonEmptyAlias(p, hotelAliases, "phone"),
		CountryCode: strings.ToUpper(deref(firstNonEmptyAlias(p, hotelAliases, "country_code"))),
		CountryName: deref(firstNonEmptyAlias(p, hotelAliases, "country_name")),
		CityName:    deref(firstNonEmptyAlias(p, hotelAliases, "city")),
		Experiences: firstSliceStrings(p, "experiences", "experience_tags", "tags"),
		Amenities:   firstSliceStrings(p, "facilities", "amenities"),
		Images:      firstSliceStrings(p, "photos", "images", "hotel_image"),
	}
	if rooms, ok := lookupAny(p, "rooms").([]any); ok {
		for _, r := range rooms {
			rm, ok := r.(map[string]any)
			if !ok {
				continue
			}
			fh.Rooms = append(fh.Rooms, ReservationItemInput{
				Label:    firstNonEmptyAlias(rm, roomAliases, "label"),
				PriceUSD: priceFlexible(rm, roomAliases["usd"]...),
				PriceLKR: priceFlexible(rm, roomAliases["lkr"]...),
			})
		}
	}
	return fh
}
