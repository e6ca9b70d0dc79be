package units

import (
	"encoding/binary"
	"errors"
	"math"
)

// Every quantity type's canonical magnitude is stored in an unexported
// field, so gob (which only encodes exported struct fields) would silently
// drop it. Each type implements encoding.BinaryMarshaler/BinaryUnmarshaler,
// which gob consults before falling back to struct reflection, so
// round-tripping through pkg/serialize preserves the magnitude.

var errBadLength = errors.New("units: malformed binary representation")

func marshalFloat64(f float64) ([]byte, error) {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, math.Float64bits(f))
	return buf, nil
}

func unmarshalFloat64(data []byte) (float64, error) {
	if len(data) != 8 {
		return 0, errBadLength
	}
	return math.Float64frombits(binary.BigEndian.Uint64(data)), nil
}

func (t Time) MarshalBinary() ([]byte, error) { return marshalFloat64(t.seconds) }

func (t *Time) UnmarshalBinary(data []byte) error {
	v, err := unmarshalFloat64(data)
	if err != nil {
		return err
	}
	t.seconds = v
	return nil
}

func (c Currency) MarshalBinary() ([]byte, error) { return marshalFloat64(c.usd) }

func (c *Currency) UnmarshalBinary(data []byte) error {
	v, err := unmarshalFloat64(data)
	if err != nil {
		return err
	}
	c.usd = v
	return nil
}

func (p CurrencyPerTime) MarshalBinary() ([]byte, error) { return marshalFloat64(p.usdPerSecond) }

func (p *CurrencyPerTime) UnmarshalBinary(data []byte) error {
	v, err := unmarshalFloat64(data)
	if err != nil {
		return err
	}
	p.usdPerSecond = v
	return nil
}

func (r Requests) MarshalBinary() ([]byte, error) { return marshalFloat64(r.count) }

func (r *Requests) UnmarshalBinary(data []byte) error {
	v, err := unmarshalFloat64(data)
	if err != nil {
		return err
	}
	r.count = v
	return nil
}

func (r RequestsPerTime) MarshalBinary() ([]byte, error) { return marshalFloat64(r.perSecond) }

func (r *RequestsPerTime) UnmarshalBinary(data []byte) error {
	v, err := unmarshalFloat64(data)
	if err != nil {
		return err
	}
	r.perSecond = v
	return nil
}
