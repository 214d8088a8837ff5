package cmd

import (
	"context"
	"errors"
	"math/big"
	"os"
	"os/signal"
	"syscall"

	"cosmossdk.io/log"
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cosmos/gravity-orchestrator/cosmoschain"
	"github.com/cosmos/gravity-orchestrator/ethereum"
	"github.com/cosmos/gravity-orchestrator/orchestrator"
)

// errNativeClientNotWired is returned when a deployment's main package
// forgot to set NewQueryClient/NewMsgClient before calling start (spec §1:
// the native chain's generated bridge-module client is an out-of-scope
// external collaborator this binary never fabricates on its own).
var errNativeClientNotWired = errors.New("native chain query/msg client factories are not wired: set cmd.NewQueryClient and cmd.NewMsgClient before Execute")

// NewQueryClient and NewMsgClient are the seam where a real deployment links
// in the native chain's generated bridge-module gRPC client (spec §1's
// out-of-scope external collaborator). They default to nil; Start returns a
// clear configuration error if a deployment forgets to set them via an
// init() in its own main package.
var (
	NewQueryClient cosmoschain.QueryClientFactory
	NewMsgClient   cosmoschain.MsgClientFactory
)

// NewStartCmd builds the `start` subcommand that runs the three
// orchestrator loops until an external signal stops the process (spec §5:
// "the process exits only on external signal").
func NewStartCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "run the event watcher, valset relayer, and batch relayer loops",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStart(cmd, v)
		},
	}

	flags := cmd.Flags()
	flags.String("bridge-id", "", "bridge id string mixed into every confirmation hash")
	flags.String("evm-rpc", "", "EVM chain JSON-RPC endpoint")
	flags.Uint64("evm-chain-id", 0, "EVM chain id, for transaction signing")
	flags.String("evm-contract", "", "bridge contract address on the EVM chain")
	flags.String("evm-signing-key", "", "hex-encoded ECDSA private key for EVM transactions")
	flags.Uint64("evm-gas-limit-valset", 500000, "gas limit for updateValset calls")
	flags.String("native-grpc", "", "native chain gRPC endpoint")
	flags.String("native-validator", "", "this relayer's validator EVM address, for last_event_nonce queries")
	flags.String("native-signing-key", "", "native chain signing key, stored in the orchestrator config; it is not passed to the injected MsgClient factory")
	flags.String("fee-denom", "", "native chain fee denomination for claim submission")
	flags.String("fee-amount", "0", "native chain fee amount for claim submission")
	flags.Uint64("cycle-sleep-seconds", 10, "sleep between cycles within a loop")
	flags.Uint64("tx-timeout-seconds", 60, "per-transaction wait-for-receipt timeout, stored in the orchestrator config; receipt waits are not bounded by it and end only when mined or on process cancellation")
	flags.Uint64("starting-block", 0, "EVM block height to begin the event watcher's first scan from")

	return cmd
}

func runStart(cmd *cobra.Command, v *viper.Viper) error {
	if NewQueryClient == nil || NewMsgClient == nil {
		return errNativeClientNotWired
	}

	feeAmount, ok := new(big.Int).SetString(v.GetString("fee-amount"), 10)
	if !ok {
		feeAmount = big.NewInt(0)
	}

	cfg := orchestrator.Config{
		BridgeID:             v.GetString("bridge-id"),
		EVMRPCEndpoint:       v.GetString("evm-rpc"),
		EVMChainID:           v.GetUint64("evm-chain-id"),
		EVMContractAddr:      common.HexToAddress(v.GetString("evm-contract")),
		EVMSigningKeyHex:     v.GetString("evm-signing-key"),
		EVMGasLimitValset:    v.GetUint64("evm-gas-limit-valset"),
		NativeGRPCEndpoint:   v.GetString("native-grpc"),
		NativeValidatorAddr:  common.HexToAddress(v.GetString("native-validator")),
		NativeSigningKey:     v.GetString("native-signing-key"),
		FeeDenom:             v.GetString("fee-denom"),
		FeeAmount:            feeAmount,
		CycleSleepSeconds:    v.GetUint64("cycle-sleep-seconds"),
		TxTimeoutSeconds:     v.GetUint64("tx-timeout-seconds"),
	}

	logger := log.NewLogger(cmd.OutOrStdout())

	signer, err := ethereum.NewKeySigner(cfg.EVMSigningKeyHex, cfg.EVMChainID)
	if err != nil {
		return err
	}

	orch, err := orchestrator.New(cfg, logger, signer, NewQueryClient, NewMsgClient)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return orch.Run(ctx, v.GetUint64("starting-block"))
}
