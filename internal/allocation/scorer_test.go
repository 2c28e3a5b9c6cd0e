package allocation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gustavo-rs/gerenciamento-alocacao/internal/models"
)

func sala(id string, capacidade, especiais int) models.Sala {
	return models.Sala{ID: id, Nome: "Sala " + id, CapacidadeTotal: capacidade, CadeirasEspeciais: especiais, Status: models.SalaStatusAtiva}
}

func doadora(id string, capacidade, especiais int) models.Sala {
	s := sala(id, capacidade, especiais)
	s.CadeirasMoveis = true
	return s
}

func turma(id string, alunos, esp int) models.Turma {
	return models.Turma{ID: id, Nome: "Turma " + id, Alunos: alunos, EspNecessarias: esp}
}

func TestScoreHardFailsWithoutDonor(t *testing.T) {
	c := Score(sala("A", 30, 0), turma("Y", 40, 0), nil, models.DefaultPreferencias())

	assert.True(t, c.HardFail)
	assert.Equal(t, 0.0, c.Score)
	assert.Equal(t, models.MotivoCapacidadeInsuficiente, c.Motivo)
}

func TestScoreHardFailsOnSpecialSeats(t *testing.T) {
	c := Score(sala("A", 50, 1), turma("Y", 20, 3), nil, models.DefaultPreferencias())

	assert.True(t, c.HardFail)
	assert.Equal(t, 0.0, c.Score)
	assert.Equal(t, models.MotivoEspeciaisInsuficientes, c.Motivo)
	assert.Equal(t, 50, c.EffectiveCapacity)
}

func TestScoreBorrowsMovableSeats(t *testing.T) {
	rooms := []models.Sala{sala("A", 30, 0), doadora("B", 40, 5)}
	c := Score(rooms[0], turma("X", 33, 0), Donors(rooms), models.DefaultPreferencias())

	require.False(t, c.HardFail)
	assert.InDelta(t, 81.0, c.Score, 0.001)
	assert.Equal(t, 3, c.Rationale.MovableBorrowed)
	assert.Equal(t, "Sala B", c.Rationale.MovableSourceRoom)
	assert.Equal(t, "B", c.Rationale.MovableSourceID)
	assert.Equal(t, 100.0, c.Rationale.OccupancyPct)
	assert.Equal(t, "Ocupacao: 100.0% | Especiais: 0/0 | +3 moveis (Sala B)", Observacoes(c.Rationale))
}

func TestScoreBorrowsForSpecialGap(t *testing.T) {
	rooms := []models.Sala{sala("A", 40, 1), doadora("D", 20, 2)}
	c := Score(rooms[0], turma("X", 30, 3), Donors(rooms), models.DefaultPreferencias())

	require.False(t, c.HardFail)
	assert.InDelta(t, 78.75, c.Score, 0.001)
	assert.Equal(t, 2, c.Rationale.MovableBorrowed)
	assert.Equal(t, 3, c.Rationale.SpecialUsed)
	assert.Equal(t, 1, c.Rationale.SpecialAvailable)
}

func TestScoreRoomCannotLendToItself(t *testing.T) {
	rooms := []models.Sala{doadora("A", 30, 5)}
	c := Score(rooms[0], turma("X", 33, 0), Donors(rooms), models.DefaultPreferencias())
	assert.True(t, c.HardFail)
}

func TestDonorsIgnoreInactiveAndOrderDeterministically(t *testing.T) {
	inactive := doadora("Z", 40, 9)
	inactive.Status = models.SalaStatusManutencao
	donors := Donors([]models.Sala{doadora("C", 30, 4), sala("N", 30, 8), inactive, doadora("B", 30, 4), doadora("A", 30, 6)})

	require.Len(t, donors, 3)
	assert.Equal(t, []string{"A", "B", "C"}, []string{donors[0].ID, donors[1].ID, donors[2].ID})
}

func TestScoreMonotonicTowardsIdealOccupancy(t *testing.T) {
	room := sala("A", 100, 0)
	prefs := models.DefaultPreferencias()

	previous := -1.0
	for _, alunos := range []int{10, 30, 50, 69, 70, 85, 95} {
		c := Score(room, turma("X", alunos, 0), nil, prefs)
		assert.GreaterOrEqual(t, c.Score, previous, "alunos=%d", alunos)
		previous = c.Score
	}

	inBand := Score(room, turma("X", 95, 0), nil, prefs).Score
	full := Score(room, turma("X", 100, 0), nil, prefs).Score
	assert.Less(t, full, inBand)
	assert.Equal(t, 100.0, inBand)
}

func TestScoreMonotonicInSpecialSufficiency(t *testing.T) {
	donors := Donors([]models.Sala{doadora("D", 50, 5)})
	prefs := models.DefaultPreferencias()

	previous := -1.0
	for especiais := 0; especiais <= 4; especiais++ {
		c := Score(sala("A", 100, especiais), turma("X", 80, 3), donors, prefs)
		require.False(t, c.HardFail)
		assert.GreaterOrEqual(t, c.Score, previous, "especiais=%d", especiais)
		previous = c.Score
	}
}

func TestScoreProximityOnlyWhenPrioritised(t *testing.T) {
	near := sala("A", 40, 0)
	near.Localizacao = "Bloco A"
	far := sala("B", 40, 0)
	far.Localizacao = "Bloco B"
	class := turma("X", 32, 0)
	class.LocalizacaoPreferida = "bloco a"

	prefs := models.DefaultPreferencias()
	assert.Greater(t, Score(near, class, nil, prefs).Score, Score(far, class, nil, prefs).Score)

	prefs.PriorizarProximidade = false
	assert.Equal(t, Score(near, class, nil, prefs).Score, Score(far, class, nil, prefs).Score)
}

func TestScoreReservesSpecialRooms(t *testing.T) {
	plain := sala("A", 40, 0)
	special := sala("B", 40, 4)
	class := turma("X", 32, 0)

	prefs := models.DefaultPreferencias()
	assert.Greater(t, Score(plain, class, nil, prefs).Score, Score(special, class, nil, prefs).Score)

	prefs.PriorizarEspeciais = false
	assert.Equal(t, Score(plain, class, nil, prefs).Score, Score(special, class, nil, prefs).Score)
}
