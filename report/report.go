// Copyright 2021 Optakt Labs OÜ
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not
// use this file except in compliance with the License. You may obtain a copy of
// the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
// WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the
// License for the specific language governing permissions and limitations under
// the License.

package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/pterm/pterm"

	"github.com/optakt/minichain/models/chain"
)

// Chain writes a human-readable dump of every block of the chain.
func Chain(w io.Writer, blocks []*chain.Block) error {
	for _, block := range blocks {
		out, err := Block(block)
		if err != nil {
			return fmt.Errorf("could not render block (index: %d): %w", block.Index, err)
		}
		_, err = io.WriteString(w, out)
		if err != nil {
			return fmt.Errorf("could not write block (index: %d): %w", block.Index, err)
		}
	}
	return nil
}

// Block renders a single block, with its linkage metadata followed by its
// transfers.
func Block(block *chain.Block) (string, error) {

	meta := pterm.TableData{
		{"index", strconv.FormatUint(block.Index, 10)},
		{"timestamp", fmt.Sprintf("%d (%s)", block.Timestamp, time.UnixMilli(block.Timestamp).UTC().Format(time.RFC3339Nano))},
		{"previous hash", block.PreviousHash},
		{"hash", block.Hash},
		{"nonce", strconv.FormatUint(block.Nonce, 10)},
	}
	header, err := pterm.DefaultTable.WithData(meta).Srender()
	if err != nil {
		return "", fmt.Errorf("could not render block header: %w", err)
	}

	transfers := "no transfers"
	if len(block.Transfers) > 0 {
		data := pterm.TableData{{"#", "sender", "receiver", "amount"}}
		for i, transfer := range block.Transfers {
			data = append(data, []string{
				strconv.Itoa(i),
				transfer.Sender,
				transfer.Receiver,
				amount(transfer.Amount),
			})
		}
		transfers, err = pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
		if err != nil {
			return "", fmt.Errorf("could not render block transfers: %w", err)
		}
	}

	title := fmt.Sprintf("block %d", block.Index)
	if block.IsGenesis() {
		title = "genesis block"
	}

	return pterm.DefaultBox.WithTitle(title).Sprintln(header + "\n\n" + transfers), nil
}

// Balances writes a table of the given balances, sorted by identifier.
func Balances(w io.Writer, balances map[string]float64) error {

	identifiers := make([]string, 0, len(balances))
	for identifier := range balances {
		identifiers = append(identifiers, identifier)
	}
	sort.Strings(identifiers)

	data := pterm.TableData{{"identifier", "balance"}}
	for _, identifier := range identifiers {
		data = append(data, []string{identifier, amount(balances[identifier])})
	}

	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return fmt.Errorf("could not render balances: %w", err)
	}

	_, err = fmt.Fprintln(w, out)
	if err != nil {
		return fmt.Errorf("could not write balances: %w", err)
	}

	return nil
}

func amount(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
