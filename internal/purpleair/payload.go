// Package purpleair fetches raw readings from a PurpleAir sensor, either
// through the cloud JSON API or a device's local-network endpoint, and
// normalizes them into the canonical SensorReading.
package purpleair

// Payload is a tagged union of the two raw payload shapes, decided at fetch
// time. Exactly one branch is non-nil.
type Payload struct {
	Cloud *CloudPayload
	Local *LocalPayload
}

// CloudPayload is the envelope returned by the cloud API. The sensor record
// lives in Results; an empty Results slice means the sensor id matched
// nothing.
type CloudPayload struct {
	MapVersion string        `json:"mapVersion"`
	Results    []CloudSensor `json:"results"`
}

// CloudSensor is a single sensor record. The cloud API reports numeric
// values as strings.
type CloudSensor struct {
	ID       int    `json:"ID"`
	Label    string `json:"Label"`
	PM25     string `json:"PM2_5Value"`
	Humidity string `json:"humidity"`
	TempF    string `json:"temp_f"`
	// Stats is an embedded JSON document carrying the averaged PM2.5
	// fields (v=realtime, v1=10min, v2=30min, v3=1h).
	Stats string `json:"Stats"`
}

// cloudStats is the decoded form of CloudSensor.Stats.
type cloudStats struct {
	V  *float64 `json:"v"`
	V1 *float64 `json:"v1"`
	V2 *float64 `json:"v2"`
	V3 *float64 `json:"v3"`
}

// LocalPayload is the flat JSON object served by the device itself at
// http://<ip>/json. Optional fields are pointers so absence is observable.
type LocalPayload struct {
	SensorID string   `json:"SensorId"`
	Place    string   `json:"place"`
	PM25Atm  *float64 `json:"pm2_5_atm"`
	Humidity *float64 `json:"current_humidity"`
	TempF    *float64 `json:"current_temp_f"`
	// Gas680 is the VOC reading from the on-board BME680, present only on
	// hardware revisions that carry that chip.
	Gas680 *float64 `json:"gas_680"`
}
