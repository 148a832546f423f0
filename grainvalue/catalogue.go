// Package grainvalue implements grain metrology: a catalogue of per-grain
// scalar quantities (geometry, statistics, curvature, volume) derived from
// a field and a mask's grains, plus a hook for user-defined formulas over
// the same catalogue. Mirrors grain-value-builtin.c and grain-value.c.
package grainvalue

// SameUnits indicates whether a quantity is only meaningful when some of
// the field's axis units agree, mirroring grain-value.c's "same units"
// capability.
type SameUnits int

const (
	// SameUnitsNone means the quantity is meaningful regardless of unit
	// agreement between axes.
	SameUnitsNone SameUnits = iota
	// SameUnitsLateral means the quantity requires the x and y units to
	// match (e.g. a radius mixing both lateral axes).
	SameUnitsLateral
	// SameUnitsAll means the quantity additionally requires the z unit
	// to match the lateral units (e.g. a slope or curvature).
	SameUnitsAll
)

// Tag identifies a built-in grain value.
type Tag string

const (
	CenterX            Tag = "center_x"
	CenterY            Tag = "center_y"
	ProjectedArea      Tag = "projected_area"
	EquivDiscRadius    Tag = "equiv_disc_radius"
	SurfaceArea        Tag = "surface_area"
	HalfHeightArea     Tag = "half_height_area"
	ConvexHullArea     Tag = "convex_hull_area"
	CircumcircleR      Tag = "circumcircle_r"
	CircumcircleX      Tag = "circumcircle_x"
	CircumcircleY      Tag = "circumcircle_y"
	Minimum            Tag = "minimum"
	Maximum            Tag = "maximum"
	Mean               Tag = "mean"
	Median             Tag = "median"
	RMSIntra           Tag = "rms"
	SkewIntra          Tag = "skew"
	KurtosisIntra      Tag = "kurtosis"
	BoundaryMin        Tag = "boundary_min"
	BoundaryMax        Tag = "boundary_max"
	FlatBoundaryLength Tag = "flat_boundary_length"
	MinBoundSize       Tag = "min_bound_size"
	MinBoundAngle      Tag = "min_bound_angle"
	MaxBoundSize       Tag = "max_bound_size"
	MaxBoundAngle      Tag = "max_bound_angle"
	InscribedDiscR     Tag = "inscribed_disc_r"
	InscribedDiscX     Tag = "inscribed_disc_x"
	InscribedDiscY     Tag = "inscribed_disc_y"
	MeanRadius         Tag = "mean_radius"
	MeanEdgeDistance   Tag = "mean_edge_distance"
	ShapeNumber        Tag = "shape_number"
	Volume0            Tag = "volume_0"
	VolumeMin          Tag = "volume_min"
	VolumeLaplace      Tag = "volume_laplace"
	SlopeTheta         Tag = "slope_theta"
	SlopePhi           Tag = "slope_phi"
	CurvatureXC        Tag = "curvature_xc"
	CurvatureYC        Tag = "curvature_yc"
	CurvatureZC        Tag = "curvature_zc"
	CurvatureK1        Tag = "curvature_k1"
	CurvatureK2        Tag = "curvature_k2"
	CurvaturePhi1      Tag = "curvature_phi1"
	CurvaturePhi2      Tag = "curvature_phi2"
	SemiMajorAxis      Tag = "semimajor_axis"
	SemiMinorAxis      Tag = "semiminor_axis"
	SemiAxisAngle      Tag = "semiaxis_angle"
)

// def is a catalogue entry: the unit exponents applied to the field's
// (x, y, z) unit descriptors, whether the quantity requires axis units to
// agree, and whether it is an angle (radians, unitless regardless of px/py/pz).
type def struct {
	px, py, pz int
	same       SameUnits
	isAngle    bool
}

var catalogue = map[Tag]def{
	CenterX:            {px: 1, same: SameUnitsNone},
	CenterY:            {py: 1, same: SameUnitsNone},
	ProjectedArea:      {px: 1, py: 1, same: SameUnitsNone},
	EquivDiscRadius:    {px: 1, same: SameUnitsLateral},
	SurfaceArea:        {px: 1, py: 1, same: SameUnitsLateral},
	HalfHeightArea:     {px: 1, py: 1, same: SameUnitsNone},
	ConvexHullArea:     {px: 1, py: 1, same: SameUnitsNone},
	CircumcircleR:      {px: 1, same: SameUnitsLateral},
	CircumcircleX:      {px: 1, same: SameUnitsNone},
	CircumcircleY:      {py: 1, same: SameUnitsNone},
	Minimum:            {pz: 1, same: SameUnitsNone},
	Maximum:            {pz: 1, same: SameUnitsNone},
	Mean:               {pz: 1, same: SameUnitsNone},
	Median:             {pz: 1, same: SameUnitsNone},
	RMSIntra:           {pz: 1, same: SameUnitsNone},
	SkewIntra:          {same: SameUnitsNone, isAngle: false},
	KurtosisIntra:      {same: SameUnitsNone},
	BoundaryMin:        {pz: 1, same: SameUnitsNone},
	BoundaryMax:        {pz: 1, same: SameUnitsNone},
	FlatBoundaryLength: {px: 1, same: SameUnitsLateral},
	MinBoundSize:       {px: 1, same: SameUnitsLateral},
	MinBoundAngle:      {same: SameUnitsLateral, isAngle: true},
	MaxBoundSize:       {px: 1, same: SameUnitsLateral},
	MaxBoundAngle:      {same: SameUnitsLateral, isAngle: true},
	InscribedDiscR:     {px: 1, same: SameUnitsLateral},
	InscribedDiscX:     {px: 1, same: SameUnitsNone},
	InscribedDiscY:     {py: 1, same: SameUnitsNone},
	MeanRadius:         {px: 1, same: SameUnitsLateral},
	MeanEdgeDistance:   {px: 1, same: SameUnitsLateral},
	ShapeNumber:        {same: SameUnitsLateral},
	Volume0:            {px: 1, py: 1, pz: 1, same: SameUnitsNone},
	VolumeMin:          {px: 1, py: 1, pz: 1, same: SameUnitsNone},
	VolumeLaplace:      {px: 1, py: 1, pz: 1, same: SameUnitsNone},
	SlopeTheta:         {same: SameUnitsAll, isAngle: true},
	SlopePhi:           {same: SameUnitsLateral, isAngle: true},
	CurvatureXC:        {px: 1, same: SameUnitsNone},
	CurvatureYC:        {py: 1, same: SameUnitsNone},
	CurvatureZC:        {pz: 1, same: SameUnitsNone},
	CurvatureK1:        {px: -1, same: SameUnitsAll},
	CurvatureK2:        {px: -1, same: SameUnitsAll},
	CurvaturePhi1:      {same: SameUnitsAll, isAngle: true},
	CurvaturePhi2:      {same: SameUnitsAll, isAngle: true},
	SemiMajorAxis:      {px: 1, same: SameUnitsLateral},
	SemiMinorAxis:      {px: 1, same: SameUnitsLateral},
	SemiAxisAngle:      {same: SameUnitsLateral, isAngle: true},
}

// AllTags returns every built-in tag known to the catalogue, in a stable
// order (declaration order, matching the table above).
func AllTags() []Tag {
	return []Tag{
		CenterX, CenterY, ProjectedArea, EquivDiscRadius, SurfaceArea,
		HalfHeightArea, ConvexHullArea, CircumcircleR, CircumcircleX, CircumcircleY,
		Minimum, Maximum, Mean, Median, RMSIntra, SkewIntra, KurtosisIntra,
		BoundaryMin, BoundaryMax, FlatBoundaryLength,
		MinBoundSize, MinBoundAngle, MaxBoundSize, MaxBoundAngle,
		InscribedDiscR, InscribedDiscX, InscribedDiscY,
		MeanRadius, MeanEdgeDistance, ShapeNumber,
		Volume0, VolumeMin, VolumeLaplace,
		SlopeTheta, SlopePhi,
		CurvatureXC, CurvatureYC, CurvatureZC, CurvatureK1, CurvatureK2, CurvaturePhi1, CurvaturePhi2,
		SemiMajorAxis, SemiMinorAxis, SemiAxisAngle,
	}
}
