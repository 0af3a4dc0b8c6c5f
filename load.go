package berlin

import (
	"bytes"
	"compress/bzip2"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// record is one code in the JSON catalog format:
//
//	{"<c>": "locode", "i": "US NYC", "s": "<bln|locode#US NYC|\"New York\">", "d": {...}}
type record struct {
	Type   CodeType     `json:"<c>"`
	Repr   string       `json:"s,omitempty"`
	ID     string       `json:"i"`
	Fields recordFields `json:"d"`
}

type recordFields struct {
	Name             string          `json:"name,omitempty"`
	AlternativeNames []string        `json:"alternative_names,omitempty"`
	Supercode        string          `json:"supercode,omitempty"`
	SubdivisionCode  string          `json:"subdivision_code,omitempty"`
	Function         string          `json:"function,omitempty"`
	IATA             string          `json:"iata,omitempty"`
	Status           string          `json:"status,omitempty"`
	Date             string          `json:"date,omitempty"`
	Remarks          string          `json:"remarks,omitempty"`
	Kind             string          `json:"type,omitempty"`
	ISO3             string          `json:"iso3,omitempty"`
	Continent        string          `json:"continent,omitempty"`
	Coordinates      json.RawMessage `json:"coordinates,omitempty"`
}

// Load reads a JSON catalog from path. A bzip2-compressed "path.bz2" is
// preferred when present; a path ending in ".bz2" is always decompressed.
func Load(path string, opts ...Option) (*Catalog, error) {
	r, cleanup, err := openOptionallyBzippedFile(path)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	cat, err := Decode(r, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return cat, nil
}

func openOptionallyBzippedFile(path string) (io.Reader, func() error, error) {
	if strings.HasSuffix(path, ".bz2") {
		fh, err := os.Open(path)
		if err != nil {
			return nil, nil, fmt.Errorf("opening %s: %w", path, err)
		}
		return bzip2.NewReader(fh), fh.Close, nil
	}
	fh, err := os.Open(path + ".bz2")
	if err != nil {
		fh, err = os.Open(path)
		if err != nil {
			return nil, nil, fmt.Errorf("opening %s: %w", path, err)
		}
		return fh, fh.Close, nil
	}
	return bzip2.NewReader(fh), fh.Close, nil
}

// Decode reads a JSON array of code records. Malformed JSON is an error;
// malformed records are reported as defects and skipped or repaired.
func Decode(r io.Reader, opts ...Option) (*Catalog, error) {
	cfg := defaultCatalogConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	var records []record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}

	codes := make([]Code, 0, len(records))
	var defects []Defect
	for _, rec := range records {
		code, recDefects := rec.code()
		for _, d := range recDefects {
			cfg.logger.Warn("catalog record defect",
				zap.String("kind", string(d.Kind)),
				zap.String("identifier", d.Identifier),
				zap.String("detail", d.Detail))
		}
		defects = append(defects, recDefects...)
		if code != nil {
			codes = append(codes, code)
		}
	}
	return buildCatalog(codes, defects, cfg), nil
}

func (rec record) code() (Code, []Defect) {
	var defects []Defect

	names := make([]string, 0, 1+len(rec.Fields.AlternativeNames))
	if rec.Fields.Name != "" {
		names = append(names, rec.Fields.Name)
	}
	for _, n := range rec.Fields.AlternativeNames {
		if n != "" {
			names = append(names, n)
		}
	}

	coords, err := decodeCoordinates(rec.Fields.Coordinates)
	if err != nil {
		defects = append(defects, Defect{
			Kind:       DefectInvalidCoordinates,
			Type:       rec.Type,
			Identifier: rec.ID,
			Detail:     err.Error(),
		})
	}
	entity := Entity{ID: rec.ID, Names: names, Coords: coords}

	f := rec.Fields
	switch rec.Type {
	case TypeLocation:
		return &Location{
			Entity:          entity,
			State:           f.Supercode,
			SubdivisionCode: f.SubdivisionCode,
			Function:        f.Function,
			IATA:            f.IATA,
			Status:          f.Status,
			Date:            f.Date,
			Remarks:         f.Remarks,
		}, defects
	case TypeSubdivision:
		state, code := f.Supercode, rec.ID
		if st, c, ok := strings.Cut(rec.ID, ":"); ok {
			state, code = st, c
		}
		entity.ID = SubdivisionID(state, code)
		return &Subdivision{Entity: entity, State: state, Code: code, Kind: f.Kind}, defects
	case TypeState:
		return &State{Entity: entity, ISO3: f.ISO3, Continent: f.Continent}, defects
	}
	return nil, append(defects, Defect{Kind: DefectUnknownType, Type: rec.Type, Identifier: rec.ID})
}

// decodeCoordinates accepts a UN/LOCODE string ("4042N 07400W") or a
// [lat, lng] array. Missing or null coordinates are not an error.
func decodeCoordinates(raw json.RawMessage) (*Coordinates, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		if strings.TrimSpace(s) == "" {
			return nil, nil
		}
		ll, err := ParseLocodeCoordinates(s)
		if err != nil {
			return nil, err
		}
		return &ll, nil
	}
	var pair []float64
	if err := json.Unmarshal(raw, &pair); err != nil {
		return nil, fmt.Errorf("coordinates: %w", err)
	}
	if len(pair) != 2 {
		return nil, fmt.Errorf("coordinates: want [lat, lng], got %d values", len(pair))
	}
	return &Coordinates{Lat: pair[0], Lng: pair[1]}, nil
}

var errLocodeCoordinates = errors.New("malformed UN/LOCODE coordinates")

// ParseLocodeCoordinates parses the UN/LOCODE "DDMMH DDDMMH" form, e.g.
// "4042N 07400W" for 40°42'N 74°00'W.
func ParseLocodeCoordinates(s string) (Coordinates, error) {
	parts := strings.Fields(s)
	if len(parts) != 2 {
		return Coordinates{}, fmt.Errorf("%w: %q", errLocodeCoordinates, s)
	}
	lat, err := parseDegreesMinutes(parts[0], 2, 'N', 'S')
	if err != nil {
		return Coordinates{}, fmt.Errorf("%w: %q", err, s)
	}
	lng, err := parseDegreesMinutes(parts[1], 3, 'E', 'W')
	if err != nil {
		return Coordinates{}, fmt.Errorf("%w: %q", err, s)
	}
	return Coordinates{Lat: lat, Lng: lng}, nil
}

func parseDegreesMinutes(s string, degDigits int, pos, neg byte) (float64, error) {
	if len(s) != degDigits+3 {
		return 0, errLocodeCoordinates
	}
	deg, err := strconv.Atoi(s[:degDigits])
	if err != nil {
		return 0, errLocodeCoordinates
	}
	minutes, err := strconv.Atoi(s[degDigits : degDigits+2])
	if err != nil || minutes >= 60 {
		return 0, errLocodeCoordinates
	}
	v := float64(deg) + float64(minutes)/60
	switch s[len(s)-1] {
	case pos:
	case neg:
		v = -v
	default:
		return 0, errLocodeCoordinates
	}
	return v, nil
}

// MarshalCode encodes a code as one JSON catalog record.
func MarshalCode(c Code) ([]byte, error) {
	rec := record{Type: c.CodeType(), Repr: Repr(c), ID: c.Identifier()}

	names := c.AlternativeNames()
	if len(names) > 0 {
		rec.Fields.Name = names[0]
		rec.Fields.AlternativeNames = names[1:]
	}
	if ll, ok := coordinatesOf(c); ok {
		raw, err := json.Marshal([]float64{ll.Lat, ll.Lng})
		if err != nil {
			return nil, err
		}
		rec.Fields.Coordinates = raw
	}

	switch v := c.(type) {
	case *Location:
		rec.Fields.Supercode = v.State
		rec.Fields.SubdivisionCode = v.SubdivisionCode
		rec.Fields.Function = v.Function
		rec.Fields.IATA = v.IATA
		rec.Fields.Status = v.Status
		rec.Fields.Date = v.Date
		rec.Fields.Remarks = v.Remarks
	case *Subdivision:
		rec.Fields.Supercode = v.State
		rec.Fields.Kind = v.Kind
	case *State:
		rec.Fields.ISO3 = v.ISO3
		rec.Fields.Continent = v.Continent
	}
	return json.Marshal(rec)
}
