package contract

// Param describes one transaction argument after the context.
type Param struct {
	Name string
	Type string
}

// Operation describes one transaction of the contract. ReadOnly operations
// are evaluated by clients, never submitted for ordering.
type Operation struct {
	Name     string
	Params   []Param
	ReadOnly bool
}

var (
	str = func(name string) Param { return Param{Name: name, Type: "string"} }
	num = func(name string) Param { return Param{Name: name, Type: "float64"} }
)

// operations is the complete, closed surface of ProductPassportContract.
var operations = []Operation{
	{Name: "InitLedger"},
	{Name: "RegisterMaterial", Params: []Param{
		str("id"), str("materialName"), str("producer"), num("appraisedValue"), str("seller"), {Name: "recycled", Type: "bool"},
	}},
	{Name: "RegisterProduct", Params: []Param{
		str("id"), str("productName"), str("manufacturer"), str("owner"), num("appraisedValue"), {Name: "materials", Type: "[]passport.Material"},
	}},
	{Name: "ReadByKey", Params: []Param{str("id")}, ReadOnly: true},
	{Name: "GetMaterialInformation", Params: []Param{str("materialId")}, ReadOnly: true},
	{Name: "ReadMaterialsOfProduct", Params: []Param{str("id")}, ReadOnly: true},
	{Name: "RecycleAndOffer", Params: []Param{str("productId")}},
	{Name: "UpdateProduct", Params: []Param{
		str("id"), str("color"), {Name: "size", Type: "int"}, str("owner"), num("appraisedValue"),
	}},
	{Name: "DeleteProduct", Params: []Param{str("id")}},
	{Name: "Exists", Params: []Param{str("id")}, ReadOnly: true},
	{Name: "TransferProduct", Params: []Param{str("id"), str("newOwner")}},
	{Name: "ListAll", ReadOnly: true},
	{Name: "RequestAccess", Params: []Param{str("productKey")}},
	{Name: "ApproveAllRequests", Params: []Param{str("productKey")}},
	{Name: "ApproveOrDenyRequest", Params: []Param{str("productKey"), str("requestId"), {Name: "approve", Type: "bool"}}},
}

// Operations returns a copy of the operation table.
func Operations() []Operation {
	out := make([]Operation, len(operations))
	copy(out, operations)
	return out
}

// GetEvaluateTransactions marks the read-only operations as evaluate
// transactions in the contract metadata.
func (c *ProductPassportContract) GetEvaluateTransactions() []string {
	var names []string
	for _, op := range operations {
		if op.ReadOnly {
			names = append(names, op.Name)
		}
	}
	return names
}
