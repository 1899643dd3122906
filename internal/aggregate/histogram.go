package aggregate

// Bucket is one histogram bin. Lo is inclusive; Hi is exclusive except for
// the last bucket, which also absorbs the maximum value.
type Bucket struct {
	Lo    float64 `json:"lo"`
	Hi    float64 `json:"hi"`
	Count int     `json:"count"`
}

// Histogram bins values into `buckets` equal-width buckets spanning
// [min, max]. Report layers rebuild these from the retained distributions;
// the engine itself never needs them.
func Histogram(values []float64, buckets int) []Bucket {
	if len(values) == 0 || buckets <= 0 {
		return nil
	}

	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	if min == max {
		return []Bucket{{Lo: min, Hi: max, Count: len(values)}}
	}

	width := (max - min) / float64(buckets)
	out := make([]Bucket, buckets)
	for i := range out {
		out[i].Lo = min + float64(i)*width
		out[i].Hi = min + float64(i+1)*width
	}
	out[buckets-1].Hi = max

	for _, v := range values {
		idx := int((v - min) / width)
		if idx >= buckets {
			idx = buckets - 1
		}
		out[idx].Count++
	}
	return out
}
