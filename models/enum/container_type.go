package enum

// ContainerType is a standard ocean-freight container class.
type ContainerType string

const (
	ContainerType20GP ContainerType = "20GP"
	ContainerType40GP ContainerType = "40GP"
	ContainerType40HC ContainerType = "40HC"
	ContainerType45HC ContainerType = "45HC"
)

func (c ContainerType) Valid() bool {
	switch c {
	case ContainerType20GP, ContainerType40GP, ContainerType40HC, ContainerType45HC:
		return true
	}
	return false
}
