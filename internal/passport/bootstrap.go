package passport

import "fmt"

// genesisMaterials seed a fresh channel for demos and smoke tests.
var genesisMaterials = []Material{
	{DocType: DocTypeMaterial, ID: "material1", MaterialName: "Material 1", Producer: "Producer 1", Seller: "Producer 1", AppraisedValue: 100},
	{DocType: DocTypeMaterial, ID: "material2", MaterialName: "Material 2", Producer: "Producer 2", Seller: "Producer 2", AppraisedValue: 200},
}

var genesisProducts = []struct {
	id    string
	name  string
	value float64
}{
	{"product1", "Product 1", 1000},
	{"product2", "Product 2", 2000},
}

// InitLedger writes the genesis materials, their private forms and two
// products made of both, manufactured and owned by caller. Reads within a
// transaction do not see its own writes, so every genesis id is checked
// against committed state before anything is written.
func (p *Passport) InitLedger(caller string) error {
	if caller == "" {
		return fmt.Errorf("caller identity must not be empty: %w", ErrInvalidArgument)
	}
	ids := make([]string, 0, len(genesisMaterials)+len(genesisProducts))
	for _, m := range genesisMaterials {
		ids = append(ids, m.ID)
	}
	for _, gp := range genesisProducts {
		ids = append(ids, gp.id)
	}
	for _, id := range ids {
		exists, err := p.Exists(id)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("the asset %s %w, the ledger is already initialized", id, ErrAlreadyExists)
		}
	}

	hashes := make([]string, 0, len(genesisMaterials))
	for _, m := range genesisMaterials {
		if err := p.putRecord(m.ID, m); err != nil {
			return err
		}
		hash, err := p.StorePrivateMaterial(m)
		if err != nil {
			return err
		}
		hashes = append(hashes, hash)
	}
	for _, gp := range genesisProducts {
		prod := &Product{
			ID:             gp.id,
			ProductName:    gp.name,
			Manufacturer:   caller,
			Owner:          caller,
			AppraisedValue: gp.value,
			Materials:      append([]string(nil), hashes...),
		}
		if err := p.putProduct(prod); err != nil {
			return err
		}
	}
	p.log.Info().Str("manufacturer", caller).Msg("ledger initialized")
	return nil
}
