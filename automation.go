package songdoc

// AutomationTargetType identifies the track parameter an automation curve
// drives.
type AutomationTargetType int

const (
	AutomationVolume AutomationTargetType = iota + 1
	AutomationPan
)

func (t AutomationTargetType) String() string {
	switch t {
	case AutomationVolume:
		return "volume"
	case AutomationPan:
		return "pan"
	}
	return "unknown"
}

type (
	// AutomationTarget is a parameter a track automates. PluginID and
	// ParamID narrow the target down to a single plugin parameter; they are
	// empty for built-in targets like volume and pan.
	AutomationTarget struct {
		Type     AutomationTargetType
		PluginID string `yaml:",omitempty"`
		ParamID  string `yaml:",omitempty"`
	}

	// AutomationPoint is one node of an automation curve. IDs are 1-based
	// and unique within the curve.
	AutomationPoint struct {
		ID    int
		Tick  int
		Value float64
	}

	// AutomationValue is the curve for one target, points ordered by tick.
	AutomationValue struct {
		Points []AutomationPoint `yaml:",flow,omitempty"`
	}

	// AutomationData holds all automation of a track: the list of automated
	// targets, and per target id the curve values.
	AutomationData struct {
		Targets      []AutomationTarget          `yaml:",omitempty"`
		TargetValues map[string]*AutomationValue `yaml:",omitempty"`
	}
)

// TargetID returns the stable key identifying the target within a track's
// automation data.
func (t AutomationTarget) TargetID() string {
	id := t.Type.String()
	if t.PluginID != "" {
		id += "^^" + t.PluginID
	}
	if t.ParamID != "" {
		id += "^^" + t.ParamID
	}
	return id
}

// AddTarget registers a target and returns its (possibly pre-existing)
// curve.
func (a *AutomationData) AddTarget(target AutomationTarget) *AutomationValue {
	id := target.TargetID()
	if a.TargetValues == nil {
		a.TargetValues = make(map[string]*AutomationValue)
	}
	if value, ok := a.TargetValues[id]; ok {
		return value
	}
	a.Targets = append(a.Targets, target)
	value := &AutomationValue{}
	a.TargetValues[id] = value
	return value
}

// ValueFor returns the curve of a target, or nil if the target is not
// automated.
func (a *AutomationData) ValueFor(target AutomationTarget) *AutomationValue {
	if a.TargetValues == nil {
		return nil
	}
	return a.TargetValues[target.TargetID()]
}

// AddPoint appends a point with the next free id. Callers append points in
// tick order.
func (v *AutomationValue) AddPoint(tick int, value float64) AutomationPoint {
	point := AutomationPoint{ID: len(v.Points) + 1, Tick: tick, Value: value}
	v.Points = append(v.Points, point)
	return point
}

// Copy makes a deep copy of AutomationData.
func (a *AutomationData) Copy() AutomationData {
	if len(a.Targets) == 0 && len(a.TargetValues) == 0 {
		return AutomationData{}
	}
	targets := make([]AutomationTarget, len(a.Targets))
	copy(targets, a.Targets)
	values := make(map[string]*AutomationValue, len(a.TargetValues))
	for id, value := range a.TargetValues {
		points := make([]AutomationPoint, len(value.Points))
		copy(points, value.Points)
		values[id] = &AutomationValue{Points: points}
	}
	return AutomationData{Targets: targets, TargetValues: values}
}
