package debugui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/planetdrop/physics"
	"github.com/plus3/planetdrop/session"
)

const (
	sortByID = iota
	sortByRank
	sortByX
	sortByY
)

// PieceBrowser lists live pieces in a sortable, filterable table.
type PieceBrowser struct {
	game          Game
	filterText    string
	selected      physics.BodyID
	sortColumn    int
	sortAscending bool
	perPage       int
	currentPage   int
}

func NewPieceBrowser(game Game, perPage int) PieceBrowser {
	return PieceBrowser{
		game:          game,
		sortAscending: true,
		perPage:       perPage,
	}
}

// Selected returns the body id of the highlighted row, or 0.
func (pb *PieceBrowser) Selected() physics.BodyID {
	return pb.selected
}

func (pb *PieceBrowser) Render() {
	if !imgui.BeginV("Pieces", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	imgui.InputTextWithHint("##search", "Filter by id or rank...", &pb.filterText, imgui.InputTextFlagsNone, nil)
	imgui.SameLine()
	if imgui.Button("Clear Filter") {
		pb.filterText = ""
	}

	pieces := filterPieces(pb.game.Pieces(), pb.filterText)

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("PieceTable", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Body")
		imgui.TableSetupColumn("Rank")
		imgui.TableSetupColumn("X")
		imgui.TableSetupColumn("Y")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			pb.sortColumn = int(spec.ColumnIndex())
			pb.sortAscending = spec.SortDirection() == imgui.SortDirectionAscending
			sortSpecs.SetSpecsDirty(false)
		}
		sortPieces(pieces, pb.sortColumn, pb.sortAscending)

		start, end := pageBounds(len(pieces), pb.currentPage, pb.perPage)
		for _, p := range pieces[start:end] {
			imgui.TableNextRow()

			imgui.TableNextColumn()
			if imgui.SelectableBoolV(fmt.Sprintf("%d", p.ID), pb.selected == p.ID, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				pb.selected = p.ID
			}
			imgui.TableNextColumn()
			imgui.Text(p.Rank.Name)
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%.1f", p.X))
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%.1f", p.Y))
		}

		imgui.EndTable()
	}

	if len(pieces) > pb.perPage {
		totalPages := (len(pieces) + pb.perPage - 1) / pb.perPage
		imgui.Text(fmt.Sprintf("Page %d / %d (%d pieces)", pb.currentPage+1, totalPages, len(pieces)))
		imgui.SameLine()
		if imgui.Button("Prev") && pb.currentPage > 0 {
			pb.currentPage--
		}
		imgui.SameLine()
		if imgui.Button("Next") && pb.currentPage < totalPages-1 {
			pb.currentPage++
		}
	} else {
		pb.currentPage = 0
		imgui.Text(fmt.Sprintf("Total: %d pieces", len(pieces)))
	}

	imgui.End()
}

func filterPieces(pieces []session.PieceSnapshot, filter string) []session.PieceSnapshot {
	if filter == "" {
		return pieces
	}
	filter = strings.ToLower(filter)

	out := make([]session.PieceSnapshot, 0, len(pieces))
	for _, p := range pieces {
		if strings.Contains(fmt.Sprintf("%d", p.ID), filter) ||
			strings.Contains(strings.ToLower(p.Rank.Name), filter) {
			out = append(out, p)
		}
	}
	return out
}

func sortPieces(pieces []session.PieceSnapshot, column int, ascending bool) {
	slices.SortStableFunc(pieces, func(a, b session.PieceSnapshot) int {
		var c int
		switch column {
		case sortByRank:
			c = a.Rank.Index - b.Rank.Index
		case sortByX:
			c = compareFloat(a.X, b.X)
		case sortByY:
			c = compareFloat(a.Y, b.Y)
		default:
			c = compareFloat(float64(a.ID), float64(b.ID))
		}
		if !ascending {
			c = -c
		}
		return c
	})
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func pageBounds(total, page, perPage int) (int, int) {
	start := min(page*perPage, total)
	end := min(start+perPage, total)
	return start, end
}
