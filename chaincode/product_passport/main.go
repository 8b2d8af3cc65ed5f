package main

import (
	"fmt"
	"os"

	"github.com/hyperledger/fabric-chaincode-go/shim"
	"github.com/hyperledger/fabric-contract-api-go/contractapi"
	"github.com/rs/zerolog"

	"github.com/ffa6995/fabric-digital-product-passport/internal/config"
	"github.com/ffa6995/fabric-digital-product-passport/internal/contract"
	"github.com/ffa6995/fabric-digital-product-passport/internal/logging"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load("", "")
	logger := logging.New(cfg.Log, nil)
	if err != nil {
		logger.Fatal().Err(err).Msg("Error loading product passport configuration")
	}

	cc, err := newChaincode(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Error creating ProductPassportContract chaincode")
	}

	logger.Info().
		Bool("service", cfg.AsService()).
		Str("collection", cfg.PrivateCollection).
		Msg("starting product passport chaincode")
	if err := run(cfg, cc); err != nil {
		logger.Fatal().Err(err).Msg("Error starting ProductPassportContract chaincode")
	}
}

func newChaincode(cfg config.Config, logger zerolog.Logger) (*contractapi.ContractChaincode, error) {
	cc, err := contractapi.NewChaincode(contract.New(cfg.PrivateCollection, logger))
	if err != nil {
		return nil, err
	}
	cc.DefaultContract = contract.Name
	cc.Info.Title = "product-passport"
	cc.Info.Version = version
	return cc, nil
}

// run starts the chaincode either as a peer-launched process or, when a
// server address is configured, as an external chaincode server.
func run(cfg config.Config, cc *contractapi.ContractChaincode) error {
	if !cfg.AsService() {
		return cc.Start()
	}
	tlsProps, err := tlsProperties(cfg.Chaincode.TLS)
	if err != nil {
		return err
	}
	server := &shim.ChaincodeServer{
		CCID:     cfg.Chaincode.ID,
		Address:  cfg.Chaincode.Address,
		CC:       cc,
		TLSProps: tlsProps,
	}
	return server.Start()
}

func tlsProperties(t config.TLS) (shim.TLSProperties, error) {
	if t.Disabled {
		return shim.TLSProperties{Disabled: true}, nil
	}
	key, err := os.ReadFile(t.KeyFile)
	if err != nil {
		return shim.TLSProperties{}, fmt.Errorf("read TLS key: %w", err)
	}
	cert, err := os.ReadFile(t.CertFile)
	if err != nil {
		return shim.TLSProperties{}, fmt.Errorf("read TLS cert: %w", err)
	}
	var clientCA []byte
	if t.ClientCACertFile != "" {
		if clientCA, err = os.ReadFile(t.ClientCACertFile); err != nil {
			return shim.TLSProperties{}, fmt.Errorf("read TLS client CA cert: %w", err)
		}
	}
	return shim.TLSProperties{
		Disabled:      false,
		Key:           key,
		Cert:          cert,
		ClientCACerts: clientCA,
	}, nil
}
