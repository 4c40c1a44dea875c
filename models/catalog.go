package models

type ProjectType string

const (
	ProjectTypeKitchenRemodel ProjectType = "Kitchen Remodel"
	ProjectTypeBathRemodel    ProjectType = "Bath Remodel"
	ProjectTypeFlooring       ProjectType = "Flooring"
	ProjectTypePainting       ProjectType = "Painting"
)

var projectTypes = []ProjectType{
	ProjectTypeKitchenRemodel,
	ProjectTypeBathRemodel,
	ProjectTypeFlooring,
	ProjectTypePainting,
}

var serviceCatalog = map[ProjectType][]string{
	ProjectTypeKitchenRemodel: {"Demolition", "Standard Cabinets", "Custom Cabinets", "Flooring", "Painting", "Backsplash", "Countertop", "Lighting", "Doors/Windows"},
	ProjectTypeBathRemodel:    {"Demolition", "Bathtub Replacement", "Acrylic Shower Replacement", "Tile Shower", "Flooring", "Painting", "Lighting", "Cabinets", "Doors/Windows"},
	ProjectTypeFlooring:       {"Old Floor Removal", "Tile", "Carpet", "Hardwood", "Glue Down", "Laminate", "Vinyl", "Other", "Re-leveling", "New Baseboard Install", "Doors/Windows"},
	ProjectTypePainting:       {"Interior Painting", "Exterior Painting", "Patching", "Priming", "Trimming", "Doors/Windows"},
}

// ProjectTypes lists the offered project types in display order.
func ProjectTypes() []ProjectType {
	out := make([]ProjectType, len(projectTypes))
	copy(out, projectTypes)
	return out
}

// Catalog returns every project type with its allowed services.
func Catalog() map[ProjectType][]string {
	out := make(map[ProjectType][]string, len(serviceCatalog))
	for t := range serviceCatalog {
		out[t] = t.Services()
	}
	return out
}

func (t ProjectType) Valid() bool {
	_, ok := serviceCatalog[t]
	return ok
}

// Services returns the services that may be requested for t.
func (t ProjectType) Services() []string {
	services := serviceCatalog[t]
	out := make([]string, len(services))
	copy(out, services)
	return out
}

func (t ProjectType) AllowsService(service string) bool {
	for _, s := range serviceCatalog[t] {
		if s == service {
			return true
		}
	}
	return false
}
