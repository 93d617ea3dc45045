package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mobidic/webide/internal/chat"
	"github.com/mobidic/webide/pkg/types"
)

var (
	chatProject string
	chatSearch  string
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Read a project's chat room",
	Long: `Show the messages of the project's chat room, creating the room if
the project does not have one yet.

Examples:
  webide chat --project 01ABC
  webide chat --project 01ABC --search deploy`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&chatProject, "project", "p", "", "Project ID")
	chatCmd.Flags().StringVar(&chatSearch, "search", "", "Filter messages by keyword")
}

var senderColor = color.New(color.FgCyan)

func runChat(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	project, err := resolveProject(cmd, chatProject)
	if err != nil {
		return err
	}

	svc := chat.NewService(newClient(), nil)
	room, err := svc.RoomForProject(ctx, project.ID)
	if err != nil {
		return err
	}

	var msgs []types.ChatMessage
	if chatSearch != "" {
		msgs, err = svc.Search(ctx, room.ID, chatSearch)
	} else {
		msgs, err = svc.Messages(ctx, room.ID)
	}
	if err != nil {
		return err
	}
	if len(msgs) == 0 {
		fmt.Println("no messages")
		return nil
	}
	for _, msg := range msgs {
		senderColor.Printf("%s", msg.Sender)
		fmt.Printf("  %s  %s\n", msg.CreatedAt, msg.Content)
	}
	return nil
}
