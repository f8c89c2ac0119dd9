package teaminfo

// Info pins a team to its home city and coordinates. Stored rows override
// the built-in coordinate table during feature computation.
type Info struct {
	Name string
	City string
	Lat  float64
	Lon  float64
}
