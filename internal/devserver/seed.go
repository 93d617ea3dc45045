package devserver

import (
	"github.com/mobidic/webide/internal/chat"
	"github.com/mobidic/webide/pkg/types"
)

// SeedDemo populates the store with a small demo project and returns it.
func (s *Store) SeedDemo() *types.Project {
	project := s.CreateProject("demo", "seeded demo project")

	src, _ := s.CreateNode(project.ID, nil, "src", types.KindFolder)
	main, _ := s.CreateNode(project.ID, src.ID, "main.py", types.KindFile)
	s.CreateNode(project.ID, src.ID, "util.py", types.KindFile)
	readme, _ := s.CreateNode(project.ID, nil, "README.md", types.KindFile)

	s.SaveContent(*main.ID, "print(\"hello\")\n")
	s.SaveContent(*readme.ID, "# demo\n")

	room := s.CreateRoom(chat.RoomName(project.ID))
	s.AddMessage(room.ID, "system", "welcome to "+project.Name)
	return project
}
