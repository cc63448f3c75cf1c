package mytypes

import (
	"database/sql/driver"
	"fmt"
	"strconv"
)

// SessionUID is the 64-bit unsigned session identifier of the telemetry
// source. Postgres has no unsigned 64-bit integer, so the value is stored in
// a bigint with the bit pattern preserved; the round trip is lossless.
type SessionUID uint64

func (s SessionUID) Value() (driver.Value, error) {
	//nolint:gosec // intentional bit-preserving conversion
	return int64(s), nil
}

func (s *SessionUID) Scan(value any) error {
	switch v := value.(type) {
	case int64:
		//nolint:gosec // intentional bit-preserving conversion
		*s = SessionUID(uint64(v))
		return nil
	case string:
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return err
		}
		//nolint:gosec // intentional bit-preserving conversion
		*s = SessionUID(uint64(parsed))
		return nil
	default:
		return fmt.Errorf("cannot scan %T into SessionUID", value)
	}
}

func (s SessionUID) String() string {
	return strconv.FormatUint(uint64(s), 10)
}
