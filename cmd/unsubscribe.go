// Copyright (c) 2025 John Dewey

// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to
// deal in the Software without restriction, including without limitation the
// rights to use, copy, modify, merge, publish, distribute, sublicense, and/or
// sell copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:

// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.

// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING
// FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER
// DEALINGS IN THE SOFTWARE.

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/msgport-io/msgport/internal/cli"
)

// unsubscribeCmd represents the unsubscribe command.
var unsubscribeCmd = &cobra.Command{
	Use:   "unsubscribe NAME",
	Short: "Destroy a durable subscription",
	Long: `Destroy a named durable subscription and the delivery state the
broker holds for it. Fails while a consumer is still attached.
`,
	Args: cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		log := logger.With("component", "unsubscribe")

		nc, sess := openSession(log)
		defer nc.Close()
		defer func() { _ = sess.Close() }()

		name := args[0]
		if err := sess.Unsubscribe(name); err != nil {
			cli.LogFatal(log, "failed to unsubscribe", err, "subscription", name)
		}

		cli.PrintKV("Unsubscribed", name)
	},
}

func init() {
	rootCmd.AddCommand(unsubscribeCmd)
}
