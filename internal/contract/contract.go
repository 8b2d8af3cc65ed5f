// Package contract exposes the product passport as a Fabric contract.
// Each transaction resolves the caller's MSP id, builds a passport around
// the invocation's stub and delegates.
package contract

import (
	"encoding/json"
	"fmt"

	"github.com/hyperledger/fabric-contract-api-go/contractapi"
	"github.com/hyperledger/fabric-contract-api-go/metadata"
	"github.com/rs/zerolog"

	"github.com/ffa6995/fabric-digital-product-passport/internal/passport"
)

// Name is the contract namespace clients address.
const Name = "org.ppn.ProductPassportContract"

type ProductPassportContract struct {
	contractapi.Contract

	collection string
	log        zerolog.Logger
}

// New returns the contract reading and writing private materials in
// collection (the default collection when empty).
func New(collection string, log zerolog.Logger) *ProductPassportContract {
	if collection == "" {
		collection = passport.DefaultCollection
	}
	c := &ProductPassportContract{collection: collection, log: log}
	c.Name = Name
	c.Info = metadata.InfoMetadata{
		Title:       "DigitalProductPassport",
		Description: "Smart contract for a digital product passport",
		Version:     "1.0.0",
	}
	c.UnknownTransaction = c.unknownTransaction
	return c
}

// --------------------------- Utils --------------------------- //

func (c *ProductPassportContract) open(ctx contractapi.TransactionContextInterface, fn string) (*passport.Passport, string, error) {
	caller, err := ctx.GetClientIdentity().GetMSPID()
	if err != nil {
		return nil, "", fmt.Errorf("failed to get client MSPID: %w", err)
	}
	stub := ctx.GetStub()
	log := c.log.With().
		Str("txID", stub.GetTxID()).
		Str("fn", fn).
		Str("mspID", caller).
		Logger()
	return passport.New(stub, passport.WithCollection(c.collection), passport.WithLogger(log)), caller, nil
}

func (c *ProductPassportContract) unknownTransaction(ctx contractapi.TransactionContextInterface) error {
	fn, _ := ctx.GetStub().GetFunctionAndParameters()
	c.log.Warn().Str("fn", fn).Msg("unknown transaction")
	return fmt.Errorf("function %q is not part of contract %s", fn, Name)
}

// --------------------------- Registry --------------------------- //

// InitLedger seeds two materials and two products owned by the caller.
func (c *ProductPassportContract) InitLedger(ctx contractapi.TransactionContextInterface) error {
	p, caller, err := c.open(ctx, "InitLedger")
	if err != nil {
		return err
	}
	return p.InitLedger(caller)
}

// RegisterMaterial issues a new material to the world state.
func (c *ProductPassportContract) RegisterMaterial(ctx contractapi.TransactionContextInterface, id string, materialName string, producer string, appraisedValue float64, seller string, recycled bool) error {
	p, _, err := c.open(ctx, "RegisterMaterial")
	if err != nil {
		return err
	}
	return p.RegisterMaterial(id, materialName, producer, appraisedValue, seller, recycled)
}

// RegisterProduct issues a new product. The materials go to the private
// collection, the product keeps their hashes.
func (c *ProductPassportContract) RegisterProduct(ctx contractapi.TransactionContextInterface, id string, productName string, manufacturer string, owner string, appraisedValue float64, materials []passport.Material) error {
	p, _, err := c.open(ctx, "RegisterProduct")
	if err != nil {
		return err
	}
	return p.RegisterProduct(id, productName, manufacturer, owner, appraisedValue, materials)
}

// ReadByKey returns the raw record stored under id.
func (c *ProductPassportContract) ReadByKey(ctx contractapi.TransactionContextInterface, id string) (string, error) {
	p, _, err := c.open(ctx, "ReadByKey")
	if err != nil {
		return "", err
	}
	return p.ReadByKey(id)
}

func (c *ProductPassportContract) GetMaterialInformation(ctx contractapi.TransactionContextInterface, materialID string) (*passport.Material, error) {
	p, _, err := c.open(ctx, "GetMaterialInformation")
	if err != nil {
		return nil, err
	}
	return p.GetMaterialInformation(materialID)
}

// UpdateProduct overwrites the record under id with the given fields only.
func (c *ProductPassportContract) UpdateProduct(ctx contractapi.TransactionContextInterface, id string, color string, size int, owner string, appraisedValue float64) error {
	p, _, err := c.open(ctx, "UpdateProduct")
	if err != nil {
		return err
	}
	return p.UpdateProduct(id, color, size, owner, appraisedValue)
}

func (c *ProductPassportContract) DeleteProduct(ctx contractapi.TransactionContextInterface, id string) error {
	p, _, err := c.open(ctx, "DeleteProduct")
	if err != nil {
		return err
	}
	return p.DeleteProduct(id)
}

func (c *ProductPassportContract) Exists(ctx contractapi.TransactionContextInterface, id string) (bool, error) {
	p, _, err := c.open(ctx, "Exists")
	if err != nil {
		return false, err
	}
	return p.Exists(id)
}

// TransferProduct sets a new owner and returns the old one.
func (c *ProductPassportContract) TransferProduct(ctx contractapi.TransactionContextInterface, id string, newOwner string) (string, error) {
	p, _, err := c.open(ctx, "TransferProduct")
	if err != nil {
		return "", err
	}
	return p.TransferProduct(id, newOwner)
}

// ListAll returns every world state record as a JSON array.
func (c *ProductPassportContract) ListAll(ctx contractapi.TransactionContextInterface) (string, error) {
	p, _, err := c.open(ctx, "ListAll")
	if err != nil {
		return "", err
	}
	recs, err := p.ListAll()
	if err != nil {
		return "", err
	}
	all, err := recs.All()
	if err != nil {
		return "", err
	}
	out, err := json.Marshal(all)
	if err != nil {
		return "", fmt.Errorf("failed to encode records: %w", err)
	}
	return string(out), nil
}

// --------------------------- Private materials --------------------------- //

// ReadMaterialsOfProduct returns the private materials of a product if the
// caller is its manufacturer or an approved entity.
func (c *ProductPassportContract) ReadMaterialsOfProduct(ctx contractapi.TransactionContextInterface, id string) ([]*passport.Material, error) {
	p, caller, err := c.open(ctx, "ReadMaterialsOfProduct")
	if err != nil {
		return nil, err
	}
	return p.ReadPrivateMaterials(id, caller)
}

// RecycleAndOffer recycles the product and offers its materials again,
// sold by the caller.
func (c *ProductPassportContract) RecycleAndOffer(ctx contractapi.TransactionContextInterface, productID string) error {
	p, caller, err := c.open(ctx, "RecycleAndOffer")
	if err != nil {
		return err
	}
	_, err = p.RecycleAndOffer(productID, caller)
	return err
}

// --------------------------- Access requests --------------------------- //

func (c *ProductPassportContract) RequestAccess(ctx contractapi.TransactionContextInterface, productKey string) (string, error) {
	p, caller, err := c.open(ctx, "RequestAccess")
	if err != nil {
		return "", err
	}
	return p.RequestAccess(productKey, caller)
}

func (c *ProductPassportContract) ApproveAllRequests(ctx contractapi.TransactionContextInterface, productKey string) (string, error) {
	p, caller, err := c.open(ctx, "ApproveAllRequests")
	if err != nil {
		return "", err
	}
	return p.ApproveAllRequests(productKey, caller)
}

func (c *ProductPassportContract) ApproveOrDenyRequest(ctx contractapi.TransactionContextInterface, productKey string, requestID string, approve bool) (string, error) {
	p, caller, err := c.open(ctx, "ApproveOrDenyRequest")
	if err != nil {
		return "", err
	}
	return p.ApproveOrDenyRequest(productKey, requestID, approve, caller)
}
