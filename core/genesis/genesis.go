// Package genesis boots a fresh object store: the reserved accounts, the
// core asset, the property singletons, and the initial witness and committee
// seats.
package genesis

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"halochain/core/state"
	"halochain/core/types"
	"halochain/native/fees"
)

// Config describes the initial chain state. Zero fields fall back to the
// defaults of Default().
type Config struct {
	Timestamp         int64           `yaml:"timestamp"`
	CoreSymbol        string          `yaml:"core_symbol"`
	CorePrecision     uint8           `yaml:"core_precision"`
	CoreMaxSupply     types.ShareType `yaml:"core_max_supply"`
	InitialCoreSupply types.ShareType `yaml:"initial_core_supply"`

	BlockInterval            uint8           `yaml:"block_interval"`
	MaintenanceInterval      uint32          `yaml:"maintenance_interval"`
	WitnessPayPerBlock       types.ShareType `yaml:"witness_pay_per_block"`
	WitnessPayVestingSeconds uint64          `yaml:"witness_pay_vesting_seconds"`
	MaximumWitnesses         uint16          `yaml:"maximum_witnesses"`
	MaximumCommittee         uint16          `yaml:"maximum_committee"`

	// InitialSeats is the number of init accounts created as both witnesses
	// and committee members.
	InitialSeats int  `yaml:"initial_seats"`
	ZeroFees     bool `yaml:"zero_fees"`
}

// Default returns a config suitable for a local single-node chain.
func Default() Config {
	return Config{
		CoreSymbol:               "HALO",
		CorePrecision:            5,
		CoreMaxSupply:            types.MaxShareSupply,
		InitialCoreSupply:        types.MaxShareSupply,
		BlockInterval:            5,
		MaintenanceInterval:      24 * 60 * 60,
		WitnessPayPerBlock:       10 * fees.CorePrecision,
		WitnessPayVestingSeconds: 0,
		MaximumWitnesses:         1001,
		MaximumCommittee:         1001,
		InitialSeats:             11,
	}
}

// LoadFile reads a YAML genesis config, filling omitted fields from the
// defaults.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read genesis file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse genesis file %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) normalized() Config {
	d := Default()
	if c.CoreSymbol == "" {
		c.CoreSymbol = d.CoreSymbol
	}
	if c.CoreMaxSupply <= 0 {
		c.CoreMaxSupply = d.CoreMaxSupply
	}
	if c.InitialCoreSupply <= 0 || c.InitialCoreSupply > c.CoreMaxSupply {
		c.InitialCoreSupply = c.CoreMaxSupply
	}
	if c.BlockInterval == 0 {
		c.BlockInterval = d.BlockInterval
	}
	if c.MaintenanceInterval == 0 {
		c.MaintenanceInterval = d.MaintenanceInterval
	}
	if c.InitialSeats <= 0 {
		c.InitialSeats = d.InitialSeats
	}
	return c
}

var reservedNames = []string{
	"committee-account",
	"witness-account",
	"relaxed-committee-account",
	"null-account",
	"temp-account",
	"proxy-to-self",
}

// Initialize populates an empty store from the config. The reserved accounts
// take instances 0 through 5, the core asset takes asset instance 0, and the
// configured init accounts hold every initial witness and committee seat.
// The entire initial supply lands on the committee account.
func Initialize(s *state.Store, cfg Config) error {
	cfg = cfg.normalized()

	createAccount := func(name string, lifetime bool) (*state.AccountObject, error) {
		accountID := s.NextID(types.SpaceProtocol, types.ObjectTypeAccount)
		stats, err := s.Create(types.SpaceImplementation, types.ObjectTypeAccountStatistics, func(id types.ObjectID) state.Object {
			return &state.AccountStatisticsObject{ID: id, Owner: accountID}
		})
		if err != nil {
			return nil, err
		}
		obj, err := s.Create(types.SpaceProtocol, types.ObjectTypeAccount, func(id types.ObjectID) state.Object {
			return &state.AccountObject{
				ID:   id,
				Name: name,
				Owner: types.Authority{
					WeightThreshold: 1,
				},
				Active: types.Authority{
					WeightThreshold: 1,
				},
				Options: types.AccountOptions{
					VotingAccount: types.ProxyToSelfAccount,
				},
				LifetimeMember: lifetime,
				Statistics:     stats.ObjectID(),
			}
		})
		if err != nil {
			return nil, err
		}
		return obj.(*state.AccountObject), nil
	}

	for _, name := range reservedNames {
		if _, err := createAccount(name, true); err != nil {
			return err
		}
	}

	dynamic, err := s.Create(types.SpaceImplementation, types.ObjectTypeAssetDynamicData, func(id types.ObjectID) state.Object {
		return &state.AssetDynamicDataObject{ID: id, CurrentSupply: cfg.InitialCoreSupply}
	})
	if err != nil {
		return err
	}
	coreAsset, err := s.Create(types.SpaceProtocol, types.ObjectTypeAsset, func(id types.ObjectID) state.Object {
		return &state.AssetObject{
			ID:        id,
			Symbol:    cfg.CoreSymbol,
			Precision: cfg.CorePrecision,
			Issuer:    types.CommitteeAccount,
			Options: types.AssetOptions{
				MaxSupply: cfg.CoreMaxSupply,
				CoreExchangeRate: types.Price{
					Base:  types.Asset{Amount: 1, AssetID: types.CoreAsset},
					Quote: types.Asset{Amount: 1, AssetID: types.CoreAsset},
				},
			},
			DynamicData: dynamic.ObjectID(),
		}
	})
	if err != nil {
		return err
	}
	if coreAsset.ObjectID() != types.CoreAsset {
		return fmt.Errorf("core asset allocated %s instead of %s", coreAsset.ObjectID(), types.CoreAsset)
	}

	schedule := fees.DefaultSchedule()
	if cfg.ZeroFees {
		schedule = fees.ZeroSchedule()
	}
	gpo := &state.GlobalPropertyObject{
		ID: state.GlobalPropertyID,
		Parameters: state.ChainParameters{
			BlockInterval:            cfg.BlockInterval,
			MaintenanceInterval:      cfg.MaintenanceInterval,
			WitnessPayPerBlock:       cfg.WitnessPayPerBlock,
			WitnessPayVestingSeconds: cfg.WitnessPayVestingSeconds,
			MaximumWitnesses:         cfg.MaximumWitnesses,
			MaximumCommittee:         cfg.MaximumCommittee,
			CurrentFees:              schedule,
		},
	}
	if _, err := s.Create(types.SpaceImplementation, types.ObjectTypeGlobalProperty, func(id types.ObjectID) state.Object {
		gpo.ID = id
		return gpo
	}); err != nil {
		return err
	}
	if _, err := s.Create(types.SpaceImplementation, types.ObjectTypeDynamicGlobalProperty, func(id types.ObjectID) state.Object {
		return &state.DynamicGlobalPropertyObject{
			ID:                  id,
			HeadBlockTime:       cfg.Timestamp,
			NextMaintenanceTime: cfg.Timestamp + int64(cfg.MaintenanceInterval),
			LastBudgetTime:      cfg.Timestamp,
		}
	}); err != nil {
		return err
	}

	for i := 0; i < cfg.InitialSeats; i++ {
		account, err := createAccount(fmt.Sprintf("init%d", i), true)
		if err != nil {
			return err
		}
		var witnessVote, committeeVote types.VoteID
		if err := s.Modify(state.GlobalPropertyID, func(obj state.Object) error {
			g := obj.(*state.GlobalPropertyObject)
			committeeVote = g.AllocateVoteID(types.VoteCommittee)
			witnessVote = g.AllocateVoteID(types.VoteWitness)
			return nil
		}); err != nil {
			return err
		}
		witness, err := s.Create(types.SpaceProtocol, types.ObjectTypeWitness, func(id types.ObjectID) state.Object {
			return &state.WitnessObject{ID: id, Account: account.ID, VoteID: witnessVote}
		})
		if err != nil {
			return err
		}
		member, err := s.Create(types.SpaceProtocol, types.ObjectTypeCommitteeMember, func(id types.ObjectID) state.Object {
			return &state.CommitteeMemberObject{ID: id, Account: account.ID, VoteID: committeeVote}
		})
		if err != nil {
			return err
		}
		if err := s.Modify(state.GlobalPropertyID, func(obj state.Object) error {
			g := obj.(*state.GlobalPropertyObject)
			g.ActiveWitnesses = append(g.ActiveWitnesses, witness.ObjectID())
			g.ActiveCommitteeMembers = append(g.ActiveCommitteeMembers, member.ObjectID())
			return nil
		}); err != nil {
			return err
		}
	}

	if cfg.InitialCoreSupply > 0 {
		if err := s.Adjust(types.CommitteeAccount, types.Asset{Amount: cfg.InitialCoreSupply, AssetID: types.CoreAsset}); err != nil {
			return err
		}
	}
	return nil
}
