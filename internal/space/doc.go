// Package space содержит доменные объекты и шаги игры: корабли,
// движение, поворот, топливо и оружие.
//
// Шаги (Move, Rotate, CheckFuel, BurnFuel, Fire, Reload) работают с
// интерфейсами возможностей, а не с конкретным Ship. Ошибки возможностей
// возвращаются шагами без изменений.
package space
