package allocation

import (
	"math"
	"sort"
)

// matcher pairs classes (rows) with rooms (columns). It returns, per row, the
// matched column or -1. Only feasible cells may be matched.
type matcher func(scores [][]float64, feasible [][]bool, classSize []int) []int

// hungarianMatch solves the maximum weight bipartite matching exactly with the
// Kuhn-Munkres algorithm. Feasible cells get a bonus larger than any attainable
// score sum so the number of placed classes is maximised before the aggregate
// score.
func hungarianMatch(scores [][]float64, feasible [][]bool, _ []int) []int {
	rows := len(scores)
	match := make([]int, rows)
	for i := range match {
		match[i] = -1
	}
	if rows == 0 {
		return match
	}
	cols := len(scores[0])
	if cols == 0 {
		return match
	}

	n := max(rows, cols)
	bonus := 100*float64(min(rows, cols)+1) + 1
	ceiling := 100 + bonus
	cost := func(i, j int) float64 {
		if i < rows && j < cols && feasible[i][j] {
			return ceiling - (scores[i][j] + bonus)
		}
		return ceiling
	}

	inf := math.Inf(1)
	u := make([]float64, n+1)
	v := make([]float64, n+1)
	p := make([]int, n+1)
	way := make([]int, n+1)

	for i := 1; i <= n; i++ {
		p[0] = i
		j0 := 0
		minv := make([]float64, n+1)
		used := make([]bool, n+1)
		for j := range minv {
			minv[j] = inf
		}
		for {
			used[j0] = true
			i0 := p[j0]
			delta := inf
			j1 := 0
			for j := 1; j <= n; j++ {
				if used[j] {
					continue
				}
				cur := cost(i0-1, j-1) - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}
			for j := 0; j <= n; j++ {
				if used[j] {
					u[p[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}
			j0 = j1
			if p[j0] == 0 {
				break
			}
		}
		for {
			j1 := way[j0]
			p[j0] = p[j1]
			j0 = j1
			if j0 == 0 {
				break
			}
		}
	}

	for j := 1; j <= n; j++ {
		i := p[j] - 1
		col := j - 1
		if i >= 0 && i < rows && col < cols && feasible[i][col] {
			match[i] = col
		}
	}
	return match
}

type candidate struct {
	row   int
	col   int
	score float64
}

// greedyMatch assigns the highest scoring pairs first. It approximates the
// optimal matching and can place fewer classes than hungarianMatch. Ties go to
// the larger class, then to the lower row and column index, which follow
// lexical ids because inputs are sorted before scoring.
func greedyMatch(scores [][]float64, feasible [][]bool, classSize []int) []int {
	rows := len(scores)
	match := make([]int, rows)
	for i := range match {
		match[i] = -1
	}

	candidates := make([]candidate, 0)
	for i := range scores {
		for j := range scores[i] {
			if feasible[i][j] {
				candidates = append(candidates, candidate{row: i, col: j, score: scores[i][j]})
			}
		}
	}
	sort.SliceStable(candidates, func(a, b int) bool {
		ca, cb := candidates[a], candidates[b]
		if ca.score != cb.score {
			return ca.score > cb.score
		}
		if classSize[ca.row] != classSize[cb.row] {
			return classSize[ca.row] > classSize[cb.row]
		}
		if ca.row != cb.row {
			return ca.row < cb.row
		}
		return ca.col < cb.col
	})

	usedCols := make(map[int]bool)
	for _, c := range candidates {
		if match[c.row] != -1 || usedCols[c.col] {
			continue
		}
		match[c.row] = c.col
		usedCols[c.col] = true
	}
	return match
}
