package normalize

// Decoded is the tagged result of shape negotiation: either a recognized item
// sequence (with the matcher that produced it) or empty.
type Decoded struct {
	Recognized bool
	Shape      string
	Items      []any
}

// Empty is the unrecognized result
var Empty = Decoded{}

// shapeMatcher reports whether payload has its shape and, if so, the items.
// A field holding a falsy scalar does not match.
type shapeMatcher struct {
	name  string
	match func(payload any) (items any, ok bool)
}

func fieldMatcher(key string) shapeMatcher {
	return shapeMatcher{
		name: key,
		match: func(payload any) (any, bool) {
			obj, ok := payload.(map[string]any)
			if !ok {
				return nil, false
			}
			v, present := obj[key]
			if !present || falsy(v) {
				return nil, false
			}
			return v, true
		},
	}
}

var sequenceMatcher = shapeMatcher{
	name: "sequence",
	match: func(payload any) (any, bool) {
		_, ok := payload.([]any)
		return payload, ok
	},
}

// flightShapes is applied in order; the first match wins
var flightShapes = []shapeMatcher{
	fieldMatcher("data"),
	fieldMatcher("flights"),
	sequenceMatcher,
}

// hotelShapes accepts only a flat sequence
var hotelShapes = []shapeMatcher{
	sequenceMatcher,
}

func decode(raw []byte, matchers []shapeMatcher) Decoded {
	payload, ok := parse(raw)
	if !ok {
		return Empty
	}
	for _, m := range matchers {
		items, ok := m.match(payload)
		if !ok {
			continue
		}
		// the first matching shape decides, even when its value is unusable
		seq, isSeq := items.([]any)
		if !isSeq {
			return Empty
		}
		return Decoded{Recognized: true, Shape: m.name, Items: seq}
	}
	return Empty
}

// DecodeFlights negotiates the flight search payload shape
func DecodeFlights(raw []byte) Decoded {
	return decode(raw, flightShapes)
}

// DecodeHotels accepts the hotel search payload, a flat sequence
func DecodeHotels(raw []byte) Decoded {
	return decode(raw, hotelShapes)
}
