package passport

// --------------------------- Records --------------------------- //

const (
	DocTypeMaterial = "material"
	DocTypeProduct  = "product"

	// RecycledSuffix is appended to a material id when the material is
	// re-offered after its product was recycled.
	RecycledSuffix = "RECYCLED"

	// DefaultCollection is the private data collection holding the full
	// material records.
	DefaultCollection = "privateMaterialsCollection"
)

// Material is a raw-material batch. Its full form is only readable through
// the private collection once it is part of a product.
type Material struct {
	DocType        string  `json:"docType,omitempty" metadata:",optional"`
	ID             string  `json:"ID"`
	MaterialName   string  `json:"MaterialName"`
	Producer       string  `json:"Producer"`
	Seller         string  `json:"Seller"`
	AppraisedValue float64 `json:"AppraisedValue"`
	Recycled       bool    `json:"Recycled"`
}

// Product is a manufactured good. Materials holds content hashes into the
// private collection, never the materials themselves.
type Product struct {
	DocType          string   `json:"docType,omitempty" metadata:",optional"`
	ID               string   `json:"ID"`
	ProductName      string   `json:"ProductName"`
	Manufacturer     string   `json:"Manufacturer"`
	Owner            string   `json:"Owner"`
	AppraisedValue   float64  `json:"AppraisedValue"`
	Recycled         bool     `json:"Recycled"`
	Materials        []string `json:"Materials"`
	ApprovalRequests []string `json:"ApprovalRequests"`
	ApprovedEntities []string `json:"ApprovedEntities"`
}

// productUpdate is the narrower shape UpdateProduct stores in place of the
// whole product.
type productUpdate struct {
	ID             string  `json:"ID"`
	Color          string  `json:"Color"`
	Size           int     `json:"Size"`
	Owner          string  `json:"Owner"`
	AppraisedValue float64 `json:"AppraisedValue"`
}

// normalize replaces nil lists so stored products always carry arrays.
func (p *Product) normalize() {
	if p.Materials == nil {
		p.Materials = []string{}
	}
	if p.ApprovalRequests == nil {
		p.ApprovalRequests = []string{}
	}
	if p.ApprovedEntities == nil {
		p.ApprovedEntities = []string{}
	}
}

// CanRead reports whether identity may see the private material detail.
func (p *Product) CanRead(identity string) bool {
	if identity == "" {
		return false
	}
	return identity == p.Manufacturer || contains(p.ApprovedEntities, identity)
}
