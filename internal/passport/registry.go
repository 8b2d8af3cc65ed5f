package passport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/hyperledger/fabric-chaincode-go/shim"
)

// --------------------------- Registry --------------------------- //

// Exists reports whether a non-empty value is stored at id.
func (p *Passport) Exists(id string) (bool, error) {
	if id == "" {
		return false, nil
	}
	data, err := p.stub.GetState(id)
	if err != nil {
		return false, fmt.Errorf("failed to read from world state: %w", err)
	}
	return len(data) > 0, nil
}

// RegisterMaterial writes a new material record to world state.
func (p *Passport) RegisterMaterial(id, name, producer string, appraisedValue float64, seller string, recycled bool) error {
	if err := validateAsset(id, appraisedValue); err != nil {
		return err
	}
	exists, err := p.Exists(id)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("the material %s %w", id, ErrAlreadyExists)
	}

	material := Material{
		DocType:        DocTypeMaterial,
		ID:             id,
		MaterialName:   name,
		Producer:       producer,
		Seller:         seller,
		AppraisedValue: appraisedValue,
		Recycled:       recycled,
	}
	if err := p.putRecord(id, material); err != nil {
		return err
	}
	p.log.Info().Str("material", id).Bool("recycled", recycled).Msg("material registered")
	return nil
}

// RegisterProduct stores every material in the private collection and the
// product, referencing them by content hash, in world state. Each material
// must already be registered.
func (p *Passport) RegisterProduct(id, name, manufacturer, owner string, appraisedValue float64, materials []Material) error {
	if err := validateAsset(id, appraisedValue); err != nil {
		return err
	}
	if manufacturer == "" {
		return fmt.Errorf("manufacturer of product %s must not be empty: %w", id, ErrInvalidArgument)
	}
	exists, err := p.Exists(id)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("the product %s %w", id, ErrAlreadyExists)
	}

	hashes := make([]string, 0, len(materials))
	for _, m := range materials {
		registered, err := p.Exists(m.ID)
		if err != nil {
			return err
		}
		if !registered {
			return fmt.Errorf("the material %q %w on the network, the material producer has to register it first", m.ID, ErrNotFound)
		}
		m.DocType = DocTypeMaterial
		hash, err := p.StorePrivateMaterial(m)
		if err != nil {
			return err
		}
		hashes = append(hashes, hash)
	}

	prod := &Product{
		ID:               id,
		ProductName:      name,
		Manufacturer:     manufacturer,
		Owner:            owner,
		AppraisedValue:   appraisedValue,
		Materials:        hashes,
		ApprovalRequests: []string{},
		ApprovedEntities: []string{},
	}
	if err := p.putProduct(prod); err != nil {
		return err
	}
	p.log.Info().Str("product", id).Int("materials", len(hashes)).Msg("product registered")
	return nil
}

// ReadByKey returns the stored record at id as is.
func (p *Passport) ReadByKey(id string) (string, error) {
	data, err := p.readRaw(id)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// GetMaterialInformation decodes the public material record at id.
func (p *Passport) GetMaterialInformation(id string) (*Material, error) {
	data, err := p.readRaw(id)
	if err != nil {
		return nil, err
	}
	var m Material
	if err := json.Unmarshal(data, &m); err != nil || m.DocType != DocTypeMaterial {
		return nil, fmt.Errorf("the material with key %s %w", id, ErrNotFound)
	}
	return &m, nil
}

// UpdateProduct replaces the record at id with {ID, Color, Size, Owner,
// AppraisedValue}. Fields not in that set are dropped from the ledger.
func (p *Passport) UpdateProduct(id, color string, size int, owner string, appraisedValue float64) error {
	if err := validateAsset(id, appraisedValue); err != nil {
		return err
	}
	if _, err := p.readRaw(id); err != nil {
		return err
	}
	update := productUpdate{
		ID:             id,
		Color:          color,
		Size:           size,
		Owner:          owner,
		AppraisedValue: appraisedValue,
	}
	if err := p.putRecord(id, update); err != nil {
		return err
	}
	p.log.Warn().Str("asset", id).Msg("record overwritten by update")
	return nil
}

// DeleteProduct removes the world state record at id. Private material
// records the product referenced stay in the collection.
func (p *Passport) DeleteProduct(id string) error {
	if _, err := p.readRaw(id); err != nil {
		return err
	}
	if err := p.stub.DelState(id); err != nil {
		return fmt.Errorf("failed to delete %s from world state: %w", id, err)
	}
	p.log.Info().Str("asset", id).Msg("asset deleted")
	return nil
}

// TransferProduct sets the Owner of the record at id and returns the
// previous owner. Fields other than Owner are kept as stored.
func (p *Passport) TransferProduct(id, newOwner string) (string, error) {
	if newOwner == "" {
		return "", fmt.Errorf("new owner must not be empty: %w", ErrInvalidArgument)
	}
	data, err := p.readRaw(id)
	if err != nil {
		return "", err
	}

	v, err := decodeJSON(data)
	asset, ok := v.(map[string]interface{})
	if err != nil || !ok {
		return "", fmt.Errorf("the asset %s is not a JSON record: %w", id, ErrInvalidArgument)
	}

	oldOwner, _ := asset["Owner"].(string)
	asset["Owner"] = newOwner
	if err := p.putRecord(id, asset); err != nil {
		return "", err
	}
	p.log.Info().Str("asset", id).Str("from", oldOwner).Str("to", newOwner).Msg("asset transferred")
	return oldOwner, nil
}

// ListAll opens a single-pass scan over the whole world state.
func (p *Passport) ListAll() (*Records, error) {
	it, err := p.stub.GetStateByRange("", "")
	if err != nil {
		return nil, fmt.Errorf("failed to open world state range: %w", err)
	}
	return &Records{it: it, p: p}, nil
}

// Record is one entry of a world state scan. Value is the decoded JSON, or
// the raw string when the stored bytes are not JSON.
type Record struct {
	Key   string
	Value interface{}
}

// Records iterates a world state scan lazily, in ascending key order. It is
// consumed once and must be closed.
type Records struct {
	it shim.StateQueryIteratorInterface
	p  *Passport
}

func (r *Records) HasNext() bool { return r.it.HasNext() }

func (r *Records) Next() (Record, error) {
	kv, err := r.it.Next()
	if err != nil {
		return Record{}, fmt.Errorf("failed to read world state range: %w", err)
	}
	v, err := decodeJSON(kv.Value)
	if err != nil {
		r.p.log.Warn().Str("key", kv.Key).Err(err).Msg("stored value is not JSON, returning raw string")
		return Record{Key: kv.Key, Value: string(kv.Value)}, nil
	}
	return Record{Key: kv.Key, Value: v}, nil
}

func (r *Records) Close() error { return r.it.Close() }

// All drains the scan into a slice of values and closes it.
func (r *Records) All() ([]interface{}, error) {
	defer r.Close()
	out := []interface{}{}
	for r.HasNext() {
		rec, err := r.Next()
		if err != nil {
			return nil, err
		}
		out = append(out, rec.Value)
	}
	return out, nil
}

// decodeJSON decodes exactly one JSON value, keeping numbers as written.
// Anything but whitespace after that value is an error.
func decodeJSON(data []byte) (interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if tok, err := dec.Token(); err != io.EOF {
		if err == nil {
			err = fmt.Errorf("unexpected %v after top-level value", tok)
		}
		return nil, err
	}
	return v, nil
}

func validateAsset(id string, appraisedValue float64) error {
	if id == "" {
		return fmt.Errorf("asset id must not be empty: %w", ErrInvalidArgument)
	}
	if appraisedValue < 0 {
		return fmt.Errorf("appraised value of %s must not be negative: %w", id, ErrInvalidArgument)
	}
	return nil
}
