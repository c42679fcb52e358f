package bench

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// jsonFloat encodes non-finite values as the strings "NaN", "+Inf" and
// "-Inf", which encoding/json rejects as numbers. A diverging engine must
// still produce a record.
type jsonFloat float64

func (f jsonFloat) MarshalJSON() ([]byte, error) {
	v := float64(f)

	switch {
	case math.IsNaN(v):
		return []byte(`"NaN"`), nil
	case math.IsInf(v, 1):
		return []byte(`"+Inf"`), nil
	case math.IsInf(v, -1):
		return []byte(`"-Inf"`), nil
	}

	return strconv.AppendFloat(nil, v, 'g', -1, 64), nil
}

func (f *jsonFloat) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		return nil
	}

	if unquoted, err := strconv.Unquote(s); err == nil {
		s = unquoted
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("bench: invalid measurement %s: %w", data, err)
	}

	*f = jsonFloat(v)

	return nil
}

type resultJSON struct {
	Engine         string    `json:"engine"`
	RoundTripError jsonFloat `json:"roundTripError"`
	DriftError     jsonFloat `json:"driftError"`
	MicrosPerOp    jsonFloat `json:"microsPerOp"`
	MicrosLo       jsonFloat `json:"microsLo"`
	MicrosHi       jsonFloat `json:"microsHi"`
}

// MarshalJSON encodes r with non-finite measurements as strings.
func (r Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(resultJSON{
		Engine:         r.Engine,
		RoundTripError: jsonFloat(r.RoundTripError),
		DriftError:     jsonFloat(r.DriftError),
		MicrosPerOp:    jsonFloat(r.MicrosPerOp),
		MicrosLo:       jsonFloat(r.MicrosLo),
		MicrosHi:       jsonFloat(r.MicrosHi),
	})
}

// UnmarshalJSON accepts both numbers and the strings written by MarshalJSON.
func (r *Result) UnmarshalJSON(data []byte) error {
	var aux resultJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	*r = Result{
		Engine:         aux.Engine,
		RoundTripError: float64(aux.RoundTripError),
		DriftError:     float64(aux.DriftError),
		MicrosPerOp:    float64(aux.MicrosPerOp),
		MicrosLo:       float64(aux.MicrosLo),
		MicrosHi:       float64(aux.MicrosHi),
	}

	return nil
}
