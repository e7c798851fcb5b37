package agent

import (
	"context"
	"fmt"
	"math"

	"github.com/zeusync/bt/internal/core/blackboard"
)

// Sensor refreshes blackboard facts before the tree is updated.
type Sensor interface {
	Name() string
	Update(ctx context.Context, bb *blackboard.Blackboard) error
}

// SensorFunc adapts a function to Sensor.
type SensorFunc struct {
	ID string
	Fn func(ctx context.Context, bb *blackboard.Blackboard) error
}

func (s SensorFunc) Name() string { return s.ID }

func (s SensorFunc) Update(ctx context.Context, bb *blackboard.Blackboard) error {
	return s.Fn(ctx, bb)
}

// DistanceSensor writes the distance between two points held on the
// blackboard as x/y keys.
type DistanceSensor struct {
	name                   string
	srcX, srcY, dstX, dstY string
	out                    string
}

func NewDistanceSensor(name, srcX, srcY, dstX, dstY, out string) *DistanceSensor {
	return &DistanceSensor{name: name, srcX: srcX, srcY: srcY, dstX: dstX, dstY: dstY, out: out}
}

func (d *DistanceSensor) Name() string { return d.name }

func (d *DistanceSensor) Update(_ context.Context, bb *blackboard.Blackboard) error {
	x1, ok1 := bb.GetFloat(d.srcX)
	y1, ok2 := bb.GetFloat(d.srcY)
	x2, ok3 := bb.GetFloat(d.dstX)
	y2, ok4 := bb.GetFloat(d.dstY)
	if !(ok1 && ok2 && ok3 && ok4) {
		return fmt.Errorf("distance sensor %s: missing coordinates", d.name)
	}
	bb.Set(d.out, math.Hypot(x2-x1, y2-y1))
	return nil
}

// ThresholdSensor writes whether a numeric key is at or above a threshold.
type ThresholdSensor struct {
	name      string
	key       string
	threshold float64
	out       string
}

func NewThresholdSensor(name, key, out string, threshold float64) *ThresholdSensor {
	return &ThresholdSensor{name: name, key: key, threshold: threshold, out: out}
}

func (s *ThresholdSensor) Name() string { return s.name }

func (s *ThresholdSensor) Update(_ context.Context, bb *blackboard.Blackboard) error {
	v, ok := bb.GetFloat(s.key)
	if !ok {
		return fmt.Errorf("threshold sensor %s: %s is not numeric", s.name, s.key)
	}
	bb.Set(s.out, v >= s.threshold)
	return nil
}
