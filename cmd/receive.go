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
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/msgport-io/msgport/internal/cli"
	"github.com/msgport-io/msgport/pkg/message"
	"github.com/msgport-io/msgport/pkg/session"
)

var (
	receiveQueueName string
	receiveTopicName string
	receiveSelector  string
	receiveDurable   string
	receiveShared    string
	receiveNoLocal   bool
	receiveCount     int
	receiveTimeout   time.Duration
)

// receiveCmd represents the receive command.
var receiveCmd = &cobra.Command{
	Use:   "receive",
	Short: "Receive messages from a queue or topic",
	Long: `Receive messages from a destination and print them. A selector
filters by message properties; --durable and --shared attach to named
subscriptions on a topic.
`,
	Run: func(cmd *cobra.Command, _ []string) {
		log := logger.With("component", "receive")

		nc, sess := openSession(log)
		defer nc.Close()
		defer func() { _ = sess.Close() }()

		dest, err := resolveDestination(sess, receiveQueueName, receiveTopicName)
		if err != nil {
			cli.LogFatal(log, "failed to resolve destination", err)
		}

		var consumer *session.Consumer
		switch {
		case receiveDurable != "" && receiveShared != "":
			consumer, err = sess.CreateSharedDurableConsumer(
				dest, receiveDurable, receiveSelector,
			)
		case receiveDurable != "":
			consumer, err = sess.CreateDurableSubscriber(
				dest, receiveDurable, receiveSelector, receiveNoLocal,
			)
		case receiveShared != "":
			consumer, err = sess.CreateSharedConsumer(
				dest, receiveShared, receiveSelector,
			)
		default:
			consumer, err = sess.CreateConsumer(dest, receiveSelector, receiveNoLocal)
		}
		if err != nil {
			cli.LogFatal(log, "failed to create consumer", err)
		}

		rows := make([][]string, 0, receiveCount)
		for i := 0; i < receiveCount; i++ {
			msg, err := consumer.ReceiveTimeout(receiveTimeout)
			if err != nil {
				if errors.Is(err, session.ErrNoMessage) {
					break
				}
				cli.LogFatal(log, "failed to receive message", err)
			}
			rows = append(rows, messageRow(msg))
		}

		if len(rows) == 0 {
			fmt.Println(cli.DimStyle.Render("  no messages"))
			return
		}

		cli.PrintCompactTable([]cli.Section{{
			Title:   fmt.Sprintf("Messages (%d)", len(rows)),
			Headers: []string{"ID", "KIND", "AGE", "SIZE", "PAYLOAD", "PROPERTIES"},
			Rows:    rows,
		}})
	},
}

// messageRow flattens a message into table cells.
func messageRow(
	msg *message.Message,
) []string {
	payload := ""
	size := 0
	switch msg.Kind() {
	case message.KindText:
		text, _ := msg.Text()
		payload = text
		size = len(text)
	case message.KindBytes:
		data, _ := msg.Bytes()
		payload = fmt.Sprintf("(%s binary)", cli.FormatBytes(len(data)))
		size = len(data)
	default:
		payload = fmt.Sprintf("(%s)", msg.Kind())
	}

	return []string{
		msg.ID(),
		msg.Kind().String(),
		cli.FormatAge(time.Since(msg.Timestamp())),
		cli.FormatBytes(size),
		payload,
		cli.FormatList(propertyPairs(msg)),
	}
}

// propertyPairs renders message properties as sorted key=value strings.
func propertyPairs(
	msg *message.Message,
) []string {
	props := msg.Properties()
	pairs := make([]string, 0, len(props))
	for k, v := range props {
		pairs = append(pairs, fmt.Sprintf("%s=%v", k, v))
	}
	sort.Strings(pairs)

	return pairs
}

func init() {
	rootCmd.AddCommand(receiveCmd)

	receiveCmd.Flags().StringVar(&receiveQueueName, "queue", "", "Queue to receive from")
	receiveCmd.Flags().StringVar(&receiveTopicName, "topic", "", "Topic to receive from")
	receiveCmd.Flags().StringVar(&receiveSelector, "selector", "",
		"Selector expression filtering by message properties")
	receiveCmd.Flags().StringVar(&receiveDurable, "durable", "",
		"Durable subscription name (topics only)")
	receiveCmd.Flags().StringVar(&receiveShared, "shared", "",
		"Shared subscription name (topics only)")
	receiveCmd.Flags().BoolVar(&receiveNoLocal, "no-local", false,
		"Skip messages sent through this connection")
	receiveCmd.Flags().IntVar(&receiveCount, "count", 1, "Maximum messages to receive")
	receiveCmd.Flags().
		DurationVar(&receiveTimeout, "timeout", 5*time.Second, "Per-message receive timeout")
}
