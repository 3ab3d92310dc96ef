package cmd

import (
	"context"
	"fmt"
	"log"

	"soundfolio/client"
	"soundfolio/config"
	"soundfolio/core/gallery"
	"soundfolio/core/likes"
	"soundfolio/model"

	"github.com/spf13/cobra"
)

var browseLikeID string

// printPlayer stands in for an audio backend when browsing from the
// terminal: selection just surfaces the playable URL.
type printPlayer struct{}

func (printPlayer) SelectTrack(t *model.Track) {
	fmt.Printf("now playing: %s (%s)\n", t.Title, t.MediaURL)
}

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the catalog of a running server",
	Long:  `Fetch the track catalog from the configured server and print it newest first, with local liked marks.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()

		store, err := likes.OpenStore(cfg.LikeSetPath)
		if err != nil {
			log.Fatalf("failed to open like set: %v", err)
		}

		api := client.New(cfg.BaseURL)
		manager := likes.NewManager(store, api)
		covers := gallery.NewCoverSet(cfg.CoverAssetDir)

		adapter := gallery.NewAdapter(api, printPlayer{}, manager, covers)
		adapter.Activate(context.Background())

		state, msg := adapter.State()
		if state != gallery.StateReady {
			log.Fatalf("catalog unavailable: %s", msg)
		}

		tracks := adapter.Tracks()
		if len(tracks) == 0 {
			fmt.Println("the catalog is empty")
			return
		}

		for i, t := range tracks {
			mark := " "
			if adapter.IsLiked(t.ExternalID) {
				mark = "♥"
			}
			fmt.Printf("%2d. %s %s  %d:%02d  [%s]\n",
				i+1, mark, t.Title, t.Duration/60, t.Duration%60, t.CoverAssetRef)
		}

		if browseLikeID != "" {
			toggled := false
			for i := range tracks {
				if tracks[i].ExternalID == browseLikeID {
					liked := adapter.OnLikeToggled(&tracks[i])
					fmt.Printf("\n%s liked=%v\n", tracks[i].Title, liked)
					toggled = true
					break
				}
			}
			if !toggled {
				log.Fatalf("no track with id %q", browseLikeID)
			}
			manager.Wait()
		}
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)

	browseCmd.Flags().StringVarP(&browseLikeID, "like", "l", "", "toggle the liked mark for a track id")
}
