package history

import (
	"encoding/json"

	mdwerror "github.com/msto63/engcalc/foundation/core/error"
	"github.com/msto63/engcalc/pkg/core/calculation"
	"github.com/msto63/engcalc/pkg/core/units"
)

type storedStep struct {
	Description  string        `json:"description"`
	Formula      string        `json:"formula"`
	Result       *units.Record `json:"result"`
	Substitution string        `json:"substitution,omitempty"`
}

func encodeValues(values map[string]units.Numeric) ([]byte, error) {
	out := make(map[string]*units.Record, len(values))
	for name, v := range values {
		out[name] = encodeValue(v)
	}
	return json.Marshal(out)
}

// encodeValue returns the stored form of v; nil encodes None.
func encodeValue(v units.Numeric) *units.Record {
	if v.IsNone() {
		return nil
	}
	rec := v.Record()
	return &rec
}

func encodeSteps(steps []calculation.Step) ([]byte, error) {
	out := make([]storedStep, len(steps))
	for i, s := range steps {
		out[i] = storedStep{
			Description:  s.Description,
			Formula:      s.Formula,
			Result:       encodeValue(s.Result),
			Substitution: s.Substitution,
		}
	}
	return json.Marshal(out)
}

// decoder rebuilds values through one unit registry so units defined at
// runtime resolve the same way they did when the result was saved.
type decoder struct {
	reg *units.Registry
}

func (d decoder) value(rec *units.Record) (units.Numeric, error) {
	if rec == nil {
		return units.None(), nil
	}
	return d.reg.FromRecord(*rec)
}

func (d decoder) values(data []byte) (map[string]units.Numeric, error) {
	var raw map[string]*units.Record
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, corrupt(err, "values")
	}
	out := make(map[string]units.Numeric, len(raw))
	for name, rec := range raw {
		v, err := d.value(rec)
		if err != nil {
			return nil, mdwerror.Wrap(err, "decode stored value").WithDetail("name", name)
		}
		out[name] = v
	}
	return out, nil
}

func (d decoder) steps(data []byte) ([]calculation.Step, error) {
	var raw []storedStep
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, corrupt(err, "steps")
	}
	out := make([]calculation.Step, len(raw))
	for i, s := range raw {
		v, err := d.value(s.Result)
		if err != nil {
			return nil, mdwerror.Wrap(err, "decode stored step").WithDetail("step", i+1)
		}
		out[i] = calculation.Step{
			Description:  s.Description,
			Formula:      s.Formula,
			Result:       v,
			Substitution: s.Substitution,
		}
	}
	return out, nil
}

func corrupt(err error, column string) *mdwerror.Error {
	return mdwerror.Wrap(err, "corrupt history record").
		WithCode(mdwerror.CodeDatabaseError).
		WithDetail("column", column)
}
