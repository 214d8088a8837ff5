package orchestrator

import (
	"context"
	"time"

	"cosmossdk.io/log"
	"golang.org/x/sync/errgroup"

	"github.com/cosmos/gravity-orchestrator/cosmoschain"
	"github.com/cosmos/gravity-orchestrator/ethereum"
	"github.com/cosmos/gravity-orchestrator/relayer"
	"github.com/cosmos/gravity-orchestrator/watcher"
)

// Orchestrator wires the chain adapters into the watcher and the two
// relayers, then drives all three as concurrent, independent loops (spec
// §2: "the two directions run concurrently and independently; they share
// no mutable state").
type Orchestrator struct {
	cfg    Config
	logger log.Logger

	evm    ethereum.Client
	native cosmoschain.Client
	bridge *ethereum.BridgeContract

	watcher       *watcher.Watcher
	valsetRelayer *relayer.ValsetRelayer
	batchRelayer  *relayer.BatchRelayer
}

// New builds an Orchestrator from cfg. newQuery/newMsg are the native
// chain's generated bridge-module client constructors (spec §1's
// out-of-scope external collaborator, injected here rather than fabricated).
func New(
	cfg Config,
	logger log.Logger,
	signer ethereum.Signer,
	newQuery cosmoschain.QueryClientFactory,
	newMsg cosmoschain.MsgClientFactory,
) (*Orchestrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	evm, err := ethereum.NewClient(cfg.EVMRPCEndpoint, logger)
	if err != nil {
		return nil, err
	}
	native, err := cosmoschain.NewClient(cfg.NativeGRPCEndpoint, newQuery, newMsg, logger)
	if err != nil {
		return nil, err
	}
	bridge := ethereum.NewBridgeContract(cfg.EVMContractAddr, evm, signer)

	w := watcher.New(evm, native, cfg.EVMContractAddr, cfg.NativeValidatorAddr, cfg.Fee())
	vr := relayer.NewValsetRelayer(native, bridge, cfg.BridgeID, cfg.EVMGasLimitValset, logger)
	br := relayer.NewBatchRelayer(native, bridge, cfg.BridgeID, logger)

	return &Orchestrator{
		cfg:           cfg,
		logger:        logger,
		evm:           evm,
		native:        native,
		bridge:        bridge,
		watcher:       w,
		valsetRelayer: vr,
		batchRelayer:  br,
	}, nil
}

// Run starts the event watcher, valset relayer, and batch relayer loops and
// blocks until ctx is cancelled or any loop returns a non-context error
// (spec §5: three long-lived tasks for the lifetime of the process).
func (o *Orchestrator) Run(ctx context.Context, startingBlock uint64) error {
	sleep := time.Duration(o.cfg.CycleSleepSeconds) * time.Second

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return watcher.RunLoop(gctx, o.watcher, startingBlock, sleep, o.logger)
	})
	g.Go(func() error {
		return relayer.RunValsetLoop(gctx, o.valsetRelayer, sleep, o.logger)
	})
	g.Go(func() error {
		return relayer.RunBatchLoop(gctx, o.batchRelayer, sleep, o.logger)
	})
	return g.Wait()
}
