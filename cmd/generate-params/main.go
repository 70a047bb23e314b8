// Command generate-params runs the insecure single-party dev setup for
// all three circuits and writes the six files spec.md §6 names:
// pre-transfer.params, pre-transfer.vk, preparation.params,
// preparation.vk, transfer.params, transfer.vk.
//
// This is the out-of-scope external tool spec.md §6 describes, not a
// production ceremony — see cmd/ceremony for the multi-party path.
package main

import (
	"flag"
	"fmt"

	"github.com/consensys/gnark/frontend"
	"github.com/rs/zerolog/log"

	"github.com/linbeier/zk-transfer/circuits/preparation"
	"github.com/linbeier/zk-transfer/circuits/pretransfer"
	"github.com/linbeier/zk-transfer/circuits/transfer"
	"github.com/linbeier/zk-transfer/pkg/setup"
)

var circuits = map[string]func() frontend.Circuit{
	"pre-transfer": func() frontend.Circuit { return &pretransfer.Circuit{} },
	"preparation":  func() frontend.Circuit { return &preparation.Circuit{} },
	"transfer":     func() frontend.Circuit { return &transfer.Circuit{} },
}

func main() {
	outputDir := flag.String("out", ".", "directory to write .params/.vk files into")
	flag.Parse()

	for _, name := range []string{"pre-transfer", "preparation", "transfer"} {
		circuit := circuits[name]()
		if err := setup.DevSetup(circuit, *outputDir, name); err != nil {
			log.Fatal().Str("circuit", name).Err(err).Msg("dev setup failed")
		}
		fmt.Printf("%s: wrote %s/%s.params and %s/%s.vk\n", name, *outputDir, name, *outputDir, name)
	}
}
