package feed

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/danielpatrickdp/dosha-lens/internal/sensor"
	"google.golang.org/protobuf/types/known/structpb"
)

// ErrMalformedReading is returned when a received struct lacks a numeric field.
var ErrMalformedReading = errors.New("malformed reading")

const (
	fieldHeartRate   = "heart_rate"
	fieldTemperature = "temperature"
	fieldHumidity    = "humidity"
	fieldAt          = "at"
)

// #region encode
func toStruct(r sensor.Reading) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		fieldHeartRate:   structpb.NewNumberValue(float64(r.HeartRate)),
		fieldTemperature: structpb.NewNumberValue(r.Temperature),
		fieldHumidity:    structpb.NewNumberValue(float64(r.Humidity)),
		fieldAt:          structpb.NewStringValue(r.At.UTC().Format(time.RFC3339Nano)),
	}}
}

// #endregion encode

// #region decode
// fromStruct decodes a reading. A missing or unparseable at leaves At zero.
func fromStruct(s *structpb.Struct) (sensor.Reading, error) {
	fields := s.GetFields()
	num := func(key string) (float64, error) {
		v, ok := fields[key].GetKind().(*structpb.Value_NumberValue)
		if !ok {
			return 0, fmt.Errorf("%w: %s missing or not a number", ErrMalformedReading, key)
		}
		return v.NumberValue, nil
	}

	hr, err := num(fieldHeartRate)
	if err != nil {
		return sensor.Reading{}, err
	}
	temp, err := num(fieldTemperature)
	if err != nil {
		return sensor.Reading{}, err
	}
	hum, err := num(fieldHumidity)
	if err != nil {
		return sensor.Reading{}, err
	}

	r := sensor.Reading{
		HeartRate:   int(math.Round(hr)),
		Temperature: temp,
		Humidity:    int(math.Round(hum)),
	}
	if at, err := time.Parse(time.RFC3339Nano, fields[fieldAt].GetStringValue()); err == nil {
		r.At = at
	}
	return r, nil
}

// #endregion decode
