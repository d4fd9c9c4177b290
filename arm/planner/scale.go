package planner

import "penarm/arm"

// Scaler maps raw HPGL units onto the drawing surface.
// Plot files span 0..MaxHPGL on both axes; the drawing area's lower-left
// corner sits at the origin offset from the shoulder joint.
type Scaler struct {
	scaleX, scaleY   float64
	originX, originY float64
}

// NewScaler creates a scaler for the drawing area
func NewScaler(cfg arm.DrawingConfig) Scaler {
	return Scaler{
		scaleX:  cfg.Width / cfg.MaxHPGL,
		scaleY:  cfg.Height / cfg.MaxHPGL,
		originX: cfg.OriginX,
		originY: cfg.OriginY,
	}
}

// Scale converts p to drawing-surface inches
func (s Scaler) Scale(p arm.Point) arm.Vec {
	return arm.Vec{
		X: float64(p.X)*s.scaleX + s.originX,
		Y: float64(p.Y)*s.scaleY + s.originY,
	}
}
