package models

// Feature identifies one of the metered bot capabilities. The same values
// double as the intent a classified inbound message resolves to.
type Feature string

const (
	FeatureText   Feature = "text"
	FeatureImage  Feature = "image"
	FeatureVision Feature = "vision"
	FeatureCode   Feature = "code"
)

var AllFeatures = []Feature{FeatureText, FeatureImage, FeatureVision, FeatureCode}

func (f Feature) Valid() bool {
	switch f {
	case FeatureText, FeatureImage, FeatureVision, FeatureCode:
		return true
	}
	return false
}

// Column returns the users table column holding the counter for the feature.
// Returns "" for an unknown feature so callers never interpolate raw input
// into SQL.
func (f Feature) Column() string {
	switch f {
	case FeatureText:
		return "text_uses"
	case FeatureImage:
		return "image_uses"
	case FeatureVision:
		return "vision_uses"
	case FeatureCode:
		return "code_uses"
	}
	return ""
}
