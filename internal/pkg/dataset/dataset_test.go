package dataset

import (
	"errors"
	"testing"

	"gotest.tools/v3/assert"
)

func twoHours() map[int]Tables {
	t := Tables{
		Branches:   []Branch{{1, 2, -3}},
		Generators: []Generator{{1, 22, 6}},
		Nodes:      []Node{{1, 1, 16}, {2, 2, 17}},
	}
	return map[int]Tables{1: t, 2: t}
}

func TestNewDataset(t *testing.T) {
	ds, err := New(twoHours())
	assert.NilError(t, err)

	assert.Equal(t, ds.Len(), 2)
	assert.DeepEqual(t, ds.Hours(), []int{1, 2})
	assert.Assert(t, ds.PID().String() != "")
}

func TestNewRejectsGaps(t *testing.T) {
	hours := twoHours()
	hours[4] = hours[2]
	delete(hours, 2)

	_, err := New(hours)
	assert.Assert(t, errors.Is(err, ErrDataFormat))

	var fe *FormatError
	assert.Assert(t, errors.As(err, &fe))
	assert.Equal(t, fe.Hour, 2)
}

func TestNewRejectsEmpty(t *testing.T) {
	_, err := New(map[int]Tables{})
	assert.Assert(t, errors.Is(err, ErrDataFormat))
}

func TestHourReturnsCopy(t *testing.T) {
	input := twoHours()
	ds, err := New(input)
	assert.NilError(t, err)

	// mutating the constructor input must not leak into the dataset
	input[1].Branches[0].Flow = 100

	tables, err := ds.Hour(1)
	assert.NilError(t, err)
	assert.Equal(t, tables.Branches[0].Flow, -3.0)

	tables.Nodes[0].Demand = 99
	again, err := ds.Hour(1)
	assert.NilError(t, err)
	assert.Equal(t, again.Nodes[0].Demand, 16.0)
}

func TestMissingHour(t *testing.T) {
	ds, err := New(twoHours())
	assert.NilError(t, err)

	_, err = ds.Hour(3)
	assert.Assert(t, errors.Is(err, ErrMissingHour))
	_, err = ds.Hour(0)
	assert.Assert(t, errors.Is(err, ErrMissingHour))
}

func TestFormatID(t *testing.T) {
	assert.Equal(t, FormatID(1), "1")
	assert.Equal(t, FormatID(12.5), "12.5")
	assert.Equal(t, FormatID(-3), "-3")
}

func TestErrorMessages(t *testing.T) {
	err := &FormatError{Hour: 3, Table: "gens", Detail: "row 0 has 2 columns, want 3"}
	assert.Equal(t, err.Error(), "data format error: hour_3/gens: row 0 has 2 columns, want 3")

	perr := &ParamError{Name: "clusters", Value: 0, Reason: "must be positive"}
	assert.Equal(t, perr.Error(), "invalid parameter: clusters=0: must be positive")
	assert.Assert(t, errors.Is(perr, ErrInvalidParameter))
}

func TestFormatErrorKeepsCause(t *testing.T) {
	cause := errors.New("missing table")
	err := &FormatError{Hour: 2, Table: "nodes", Detail: cause.Error(), Err: cause}
	assert.Assert(t, errors.Is(err, ErrDataFormat))
	assert.Assert(t, errors.Is(err, cause))

	bare := &FormatError{Detail: "no hours"}
	assert.Assert(t, errors.Is(bare, ErrDataFormat))
	assert.Assert(t, !errors.Is(bare, cause))
}

func TestParamErrorRawValue(t *testing.T) {
	perr := &ParamError{Name: "hour", Raw: "one", Reason: "not an integer"}
	assert.Equal(t, perr.Error(), `invalid parameter: hour="one": not an integer`)
	assert.Assert(t, errors.Is(perr, ErrInvalidParameter))
}
