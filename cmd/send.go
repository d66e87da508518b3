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
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/msgport-io/msgport/internal/cli"
	"github.com/msgport-io/msgport/pkg/message"
	"github.com/msgport-io/msgport/pkg/session"
)

var (
	sendQueueName     string
	sendTopicName     string
	sendText          string
	sendFile          string
	sendProperties    []string
	sendCorrelationID string
	sendReplyTo       string
)

// sendCmd represents the send command.
var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send a message to a queue or topic",
	Long: `Send a text or bytes message to a destination. The payload comes
from --text, or from a file with --file. Properties set with --property
are visible to consumer selectors.
`,
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()
		log := logger.With("component", "send")

		nc, sess := openSession(log)
		defer nc.Close()
		defer func() { _ = sess.Close() }()

		dest, err := resolveDestination(sess, sendQueueName, sendTopicName)
		if err != nil {
			cli.LogFatal(log, "failed to resolve destination", err)
		}

		var msg *message.Message
		if sendFile != "" {
			data, err := afero.ReadFile(appFs, sendFile)
			if err != nil {
				cli.LogFatal(log, "failed to read payload file", err, "file", sendFile)
			}
			msg, err = sess.CreateBytesMessage(data)
			if err != nil {
				cli.LogFatal(log, "failed to create message", err)
			}
		} else {
			msg, err = sess.CreateTextMessage(sendText)
			if err != nil {
				cli.LogFatal(log, "failed to create message", err)
			}
		}

		props, err := parseProperties(sendProperties)
		if err != nil {
			cli.LogFatal(log, "failed to parse properties", err)
		}
		for k, v := range props {
			msg.SetProperty(k, v)
		}
		if sendCorrelationID != "" {
			msg.SetCorrelationID(sendCorrelationID)
		}
		if sendReplyTo != "" {
			msg.SetReplyTo(sendReplyTo)
		}

		producer, err := sess.CreateProducer(dest)
		if err != nil {
			cli.LogFatal(log, "failed to create producer", err)
		}

		if err := producer.Send(ctx, msg); err != nil {
			cli.LogFatal(log, "failed to send message", err)
		}

		if sess.AckMode() == session.SessionTransacted {
			if err := sess.Commit(); err != nil {
				cli.LogFatal(log, "failed to commit", err)
			}
		}

		cli.PrintKV(
			"Message ID", msg.ID(),
			"Destination", dest.Subject(),
		)
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)

	sendCmd.Flags().StringVar(&sendQueueName, "queue", "", "Queue to send to")
	sendCmd.Flags().StringVar(&sendTopicName, "topic", "", "Topic to send to")
	sendCmd.Flags().StringVar(&sendText, "text", "", "Text payload")
	sendCmd.Flags().StringVar(&sendFile, "file", "", "File to send as a bytes payload")
	sendCmd.Flags().StringArrayVar(&sendProperties, "property", nil,
		"Message property as key=value (repeatable)")
	sendCmd.Flags().StringVar(&sendCorrelationID, "correlation-id", "", "Correlation ID")
	sendCmd.Flags().StringVar(&sendReplyTo, "reply-to", "", "Reply destination name")
}
